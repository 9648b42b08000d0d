// Package templates carries the embedded template sources for the four
// control-plane services. Each service has a systemd unit template and a
// defaults (environment file) template under kubernetes/.
package templates

import (
	"embed"
	"io/fs"

	"github.com/pkg/errors"
)

//go:embed kubernetes/*.tmpl
var embedded embed.FS

// Get returns the content of an embedded template,
// e.g. "kubernetes/kube-apiserver.service.tmpl".
func Get(name string) (string, error) {
	content, err := fs.ReadFile(embedded, name)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read embedded template %q", name)
	}
	return string(content), nil
}

// List returns the paths of all embedded templates.
func List() ([]string, error) {
	var files []string
	err := fs.WalkDir(embedded, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to walk embedded templates")
	}
	return files, nil
}

// ServiceTemplate and DefaultsTemplate name the two sources for a service.
func ServiceTemplate(service string) string {
	return "kubernetes/" + service + ".service.tmpl"
}

func DefaultsTemplate(service string) string {
	return "kubernetes/" + service + ".defaults.tmpl"
}
