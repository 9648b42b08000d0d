package render

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"

	"github.com/kubelift/kubelift/pkg/common"
	"github.com/kubelift/kubelift/pkg/etcd"
	"github.com/kubelift/kubelift/pkg/templates"
)

// renderToFile renders one embedded template to dest. missingkey=error makes
// a template referencing an absent context key fail naming the key instead
// of writing an empty substitution.
func renderToFile(templateName, dest string, data map[string]interface{}) error {
	content, err := templates.Get(templateName)
	if err != nil {
		return err
	}
	tmpl, err := template.New(filepath.Base(templateName)).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(content)
	if err != nil {
		return errors.Wrapf(err, "failed to parse template %s", templateName)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return errors.Wrapf(err, "failed to render template %s", templateName)
	}
	if err := os.WriteFile(dest, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", dest)
	}
	return nil
}

// RenderService writes the unit and defaults files for one service. Always
// overwrites; re-rendering with the same context is byte-identical.
func (r *Renderer) RenderService(name string, data map[string]interface{}) error {
	unitTarget := filepath.Join(r.UnitDir, name)
	if err := renderToFile(templates.ServiceTemplate(name), unitTarget, data); err != nil {
		return err
	}
	defaultsDir := filepath.Join(r.DefaultsDir, name)
	if err := os.MkdirAll(defaultsDir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create defaults directory %s", defaultsDir)
	}
	return renderToFile(templates.DefaultsTemplate(name), filepath.Join(defaultsDir, name), data)
}

// RenderFiles ensures the working directories exist, builds the context and
// renders every service. All four are rendered each pass even when only one
// precondition changed; rewriting an unchanged definition is harmless and
// keeps the flow simple.
func (r *Renderer) RenderFiles(ctx context.Context, rel etcd.Relation) error {
	for _, dir := range []string{common.RenderedKubeDirName, common.RenderedManifestDirName} {
		if err := os.MkdirAll(filepath.Join(r.WorkDir, dir), 0o755); err != nil {
			return errors.Wrapf(err, "failed to create working directory %s", dir)
		}
	}

	data, err := r.BuildContext(ctx, rel)
	if err != nil {
		return err
	}

	for _, service := range common.AllComponents {
		if err := r.RenderService(service, data); err != nil {
			return err
		}
	}
	return nil
}
