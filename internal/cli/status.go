// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	"github.com/jeranaias/shellsage/internal/ui/styles"
)

// statusResult is the --json payload of status.
type statusResult struct {
	URL            string `json:"url"`
	Running        bool   `json:"running"`
	Model          string `json:"model"`
	ModelAvailable bool   `json:"model_available"`
}

// HandleStatus checks that Ollama answers and that the configured model is
// pulled. An unreachable server is returned as the command error.
func (a *App) HandleStatus(ctx context.Context, args Args) error {
	client := a.newClient(args)
	result := statusResult{URL: client.BaseURL(), Model: client.Model()}

	runErr := client.CheckRunning(ctx)
	result.Running = runErr == nil

	var modelErr error
	if result.Running {
		result.ModelAvailable, modelErr = client.HasModel(ctx, client.Model())
	}

	if args.JSON {
		if runErr != nil {
			return runErr
		}
		if err := NewJSONResponse("status", result).Print(a.Stdout); err != nil {
			return err
		}
		return modelErr
	}

	out := a.Stdout
	if !args.Quiet {
		fmt.Fprintln(out, TitleStyle.Render("shellsage status"))
		fmt.Fprintln(out, renderField("Ollama URL", result.URL))
		fmt.Fprintln(out, renderField("Model", result.Model))
		fmt.Fprintln(out)
	}

	if runErr != nil {
		fmt.Fprintln(out, styles.RenderError("Ollama is not reachable"))
		return runErr
	}
	fmt.Fprintln(out, styles.RenderSuccess("Ollama is running"))

	switch {
	case modelErr != nil:
		fmt.Fprintln(out, styles.RenderWarning("Could not list models"))
		return modelErr
	case result.ModelAvailable:
		fmt.Fprintln(out, styles.RenderSuccess(fmt.Sprintf("Model %s is available", result.Model)))
	default:
		fmt.Fprintln(out, styles.RenderWarning(fmt.Sprintf("Model %s is not pulled. Run: ollama pull %s", result.Model, result.Model)))
	}
	return nil
}
