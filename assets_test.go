package estateweb_test

import (
	"html/template"
	"io/fs"
	"testing"

	estateweb "github.com/MegaGrindStone/estate-analyst-web"
)

func TestStatic(t *testing.T) {
	static, err := estateweb.Static()
	if err != nil {
		t.Fatalf("Static() error = %v", err)
	}

	for _, name := range []string{"app.js", "style.css"} {
		if _, err := fs.Stat(static, name); err != nil {
			t.Errorf("Static() is missing %s: %v", name, err)
		}
	}
}

func TestTemplatePatterns(t *testing.T) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"roleClass": func(string) string { return "" },
	}).ParseFS(estateweb.TemplateFS, estateweb.TemplatePatterns...)
	if err != nil {
		t.Fatalf("ParseFS() error = %v", err)
	}

	for _, name := range []string{"user_message", "bot_message", "loading"} {
		if tmpl.Lookup(name) == nil {
			t.Errorf("template %q is not defined", name)
		}
	}
}
