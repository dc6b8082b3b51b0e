// Package planfile reads and writes lazy plans described in YAML.
package planfile

import (
	"io"
	"os"

	"github.com/Masterminds/semver"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cube2222/lazyplan/logical"
)

var ErrUnsupportedVersion = errors.New("unsupported plan file version")

const (
	// CurrentVersion is written into encoded plan files.
	CurrentVersion    = "1.0"
	supportedVersions = "^1.0"
)

type file struct {
	Version string                 `yaml:"version"`
	Plan    map[string]interface{} `yaml:"plan"`
}

func Read(path string) (logical.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't open plan file")
	}
	defer f.Close()

	node, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't decode plan file %s", path)
	}
	return node, nil
}

func Decode(r io.Reader) (logical.Node, error) {
	var f file
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(err, "couldn't decode yaml")
	}
	if err := checkVersion(f.Version); err != nil {
		return nil, err
	}
	if f.Plan == nil {
		return nil, errors.New("plan file has no plan")
	}

	node, err := decodeNode(f.Plan)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't decode plan")
	}
	return node, nil
}

func checkVersion(version string) error {
	if version == "" {
		return errors.Wrap(ErrUnsupportedVersion, "version is missing")
	}
	parsed, err := semver.NewVersion(version)
	if err != nil {
		return errors.Wrapf(ErrUnsupportedVersion, "couldn't parse version %s: %s", version, err)
	}
	constraint, err := semver.NewConstraint(supportedVersions)
	if err != nil {
		panic(err)
	}
	if !constraint.Check(parsed) {
		return errors.Wrapf(ErrUnsupportedVersion, "%s doesn't satisfy %s", version, supportedVersions)
	}
	return nil
}

func Write(path string, node logical.Node) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "couldn't create plan file")
	}
	if err := Encode(f, node); err != nil {
		f.Close()
		return errors.Wrapf(err, "couldn't encode plan file %s", path)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "couldn't close plan file")
	}
	return nil
}

func Encode(w io.Writer, node logical.Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&file{
		Version: CurrentVersion,
		Plan:    encodeNode(node),
	}); err != nil {
		return errors.Wrap(err, "couldn't encode yaml")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "couldn't flush yaml encoder")
	}
	return nil
}
