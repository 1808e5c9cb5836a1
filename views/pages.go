package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

func page(title, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>%s | Decanter</title></head><body><main>%s</main></body></html>`,
		templ.EscapeString(title), body)
}

// LoginPage lists a sign in link per configured OAuth provider.
func LoginPage(providers []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1>Sign in to Decanter</h1>`)
		if len(providers) == 0 {
			b.WriteString(`<p>No sign in providers are configured.</p>`)
		}
		b.WriteString(`<ul>`)
		for _, p := range providers {
			fmt.Fprintf(&b, `<li><a href="/auth/%s">Continue with %s</a></li>`,
				templ.EscapeString(p), templ.EscapeString(providerLabel(p)))
		}
		b.WriteString(`</ul>`)
		_, err := io.WriteString(w, page("Sign in", b.String()))
		return err
	})
}

// HomePage greets the signed in user.
func HomePage() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		name := "volunteer"
		if user := GetUser(ctx); user != nil {
			name = user.Username
		}
		body := fmt.Sprintf(`<h1>Welcome, %s</h1><form method="post" action="/logout"><button type="submit">Sign out</button></form>`,
			templ.EscapeString(name))
		_, err := io.WriteString(w, page("Home", body))
		return err
	})
}

func providerLabel(p string) string {
	if p == "" {
		return p
	}
	return strings.ToUpper(p[:1]) + p[1:]
}
