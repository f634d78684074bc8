// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles holds the shellsage colour palette and the status-line
renderers used by the CLI.

All colours are Lip Gloss AdaptiveColor values so they follow the
terminal's light or dark background. Status renderers always prefix a
shape indicator ([OK], [X], [!], [i]) so the meaning survives NO_COLOR
and colour blindness.

	fmt.Println(styles.RenderSuccess("Ollama is running"))
	fmt.Println(styles.RenderError("could not connect"))
*/
package styles
