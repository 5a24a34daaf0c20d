package html

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Layout wraps body in the page shell.
func Layout(title string, nav templ.Component, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := Write(w,
			`<!doctype html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`, templ.EscapeString(title), `</title>`,
			`<link rel="stylesheet" href="/assets/app.css"></head><body>`,
		); err != nil {
			return err
		}
		if nav != nil {
			if err := nav.Render(ctx, w); err != nil {
				return err
			}
		}
		if err := Write(w, `<main class="page">`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		return Write(w, `</main>`, FormScript(), `</body></html>`)
	})
}

// Alert shows message in a banner and as a blocking browser alert.
func Alert(message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if message == "" {
			return nil
		}
		js, err := templ.JSONString(message)
		if err != nil {
			return err
		}
		return Write(w,
			`<div class="alert" role="alert">`, templ.EscapeString(message), `</div>`,
			`<script>window.addEventListener("load", function () { window.alert(`, js, `); });</script>`,
		)
	})
}

// Write writes parts in order and stops at the first error.
func Write(w io.Writer, parts ...string) error {
	for _, p := range parts {
		if _, err := io.WriteString(w, p); err != nil {
			return err
		}
	}
	return nil
}
