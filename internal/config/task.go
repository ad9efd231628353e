package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"site-energy-sim/internal/model"
)

// DecodeTask decodes a generic document (as produced by yaml or json
// unmarshalling into map[string]any) into a task. Unknown fields and
// mistyped values are errors.
func DecodeTask(raw map[string]any) (*model.TaskData, error) {
	var task model.TaskData
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Squash:      true,
		ErrorUnused: true,
		Result:      &task,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, &model.ConfigError{Err: err}
	}
	return &task, nil
}

// LoadTask reads one task from a .yaml, .yml or .json file.
func LoadTask(path string) (*model.TaskData, error) {
	var raw map[string]any
	if err := readDocument(path, &raw); err != nil {
		return nil, err
	}
	task, err := DecodeTask(raw)
	if err != nil {
		return nil, configError(path, err)
	}
	return task, nil
}

// LoadTasks reads a list of tasks. The document is either a bare list or an
// object with a "tasks" list.
func LoadTasks(path string) ([]*model.TaskData, error) {
	var doc any
	if err := readDocument(path, &doc); err != nil {
		return nil, err
	}
	if m, ok := doc.(map[string]any); ok {
		doc = m["tasks"]
	}
	list, ok := doc.([]any)
	if !ok {
		return nil, configError(path, errors.New("expected a list of tasks"))
	}

	out := make([]*model.TaskData, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, configError(path, fmt.Errorf("tasks[%d]: expected an object", i))
		}
		task, err := DecodeTask(m)
		if err != nil {
			return nil, configError(path, fmt.Errorf("tasks[%d]: %w", i, err))
		}
		out = append(out, task)
	}
	return out, nil
}

func readDocument(path string, into any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return configError(path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(raw, into)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, into)
	default:
		err = fmt.Errorf("unsupported extension %q", filepath.Ext(path))
	}
	if err != nil {
		return configError(path, err)
	}
	return nil
}

// configError tags err as a configuration error from source, unless it
// already is one.
func configError(source string, err error) error {
	var ce *model.ConfigError
	if errors.As(err, &ce) {
		if ce.Source == "" {
			return &model.ConfigError{Source: source, Err: ce.Err}
		}
		return err
	}
	return &model.ConfigError{Source: source, Err: err}
}
