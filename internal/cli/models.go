// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jeranaias/shellsage/internal/ollama"
	"github.com/jeranaias/shellsage/internal/util"
)

const modelNameWidth = 36

// HandleModels lists the models the Ollama server has pulled. The model
// in use is marked with "*".
func (a *App) HandleModels(ctx context.Context, args Args) error {
	client := a.newClient(args)

	models, err := client.ListModels(ctx)
	if err != nil {
		return err
	}
	sort.Slice(models, func(i, j int) bool { return models[i].Name < models[j].Name })

	if args.JSON {
		return NewJSONResponse("models", models).Print(a.Stdout)
	}

	if len(models) == 0 {
		fmt.Fprintln(a.Stdout, WarningStyle.Render("No models pulled. Try: ollama pull "+client.Model()))
		return nil
	}

	fmt.Fprintln(a.Stdout, TitleStyle.Render(formatModelRow(" ", "NAME", "SIZE", "FAMILY")))
	for _, m := range models {
		marker := " "
		if isCurrentModel(m.Name, client.Model()) {
			marker = "*"
		}
		fmt.Fprintln(a.Stdout, formatModelRow(marker, m.Name, m.FormatSize(), familyLabel(m)))
	}
	return nil
}

func formatModelRow(marker, name, size, family string) string {
	name = runewidth.FillRight(util.TruncateWidth(name, modelNameWidth), modelNameWidth)
	return fmt.Sprintf("%s %s  %-9s %s", marker, name, size, family)
}

func familyLabel(m ollama.ModelInfo) string {
	family := m.Details.Family
	if family == "" {
		return "-"
	}
	label := cases.Title(language.English).String(family)
	if m.Details.ParameterSize != "" {
		label += " " + m.Details.ParameterSize
	}
	return label
}

// isCurrentModel treats "name" and "name:latest" as the same model.
func isCurrentModel(listed, current string) bool {
	return strings.TrimSuffix(listed, ":latest") == strings.TrimSuffix(current, ":latest")
}
