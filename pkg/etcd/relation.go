// Package etcd models the relation with the backing etcd cluster: a
// connection string plus client TLS material to materialize on disk. The
// relation is handed to the reconciliation core per event and never kept.
package etcd

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Relation is the connection descriptor supplied by the etcd collaborator.
type Relation interface {
	// ConnectionString returns the client endpoint list,
	// e.g. "https://10.0.0.11:2379,https://10.0.0.12:2379".
	ConnectionString() string

	// SaveClientCredentials writes the client key, certificate and CA to the
	// given paths, overwriting whatever is there.
	SaveClientCredentials(keyPath, certPath, caPath string) error
}

// relationDoc is the on-disk form of one relation event's data.
type relationDoc struct {
	ConnectionString string `yaml:"connection_string"`
	ClientKey        string `yaml:"client_key"`
	ClientCert       string `yaml:"client_cert"`
	ClientCA         string `yaml:"client_ca"`
}

// FileRelation is a Relation read from a relation-data drop file, the form
// relation events reach this controller in.
type FileRelation struct {
	doc relationDoc
}

// LoadRelation parses a relation-data YAML file. All four fields are
// required; partial relation data means the relation is not yet usable.
func LoadRelation(path string) (*FileRelation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read relation data %s", path)
	}
	var doc relationDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "failed to parse relation data %s", path)
	}
	if doc.ConnectionString == "" || doc.ClientKey == "" || doc.ClientCert == "" || doc.ClientCA == "" {
		return nil, errors.Errorf("relation data %s is incomplete", path)
	}
	return &FileRelation{doc: doc}, nil
}

func (r *FileRelation) ConnectionString() string {
	return r.doc.ConnectionString
}

// SaveClientCredentials writes the PEM payloads. The key is written 0600;
// certificates 0644. Existing files are overwritten unconditionally.
func (r *FileRelation) SaveClientCredentials(keyPath, certPath, caPath string) error {
	if err := os.WriteFile(keyPath, []byte(r.doc.ClientKey), 0o600); err != nil {
		return errors.Wrapf(err, "failed to write client key %s", keyPath)
	}
	if err := os.WriteFile(certPath, []byte(r.doc.ClientCert), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write client cert %s", certPath)
	}
	if err := os.WriteFile(caPath, []byte(r.doc.ClientCA), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write client ca %s", caPath)
	}
	return nil
}
