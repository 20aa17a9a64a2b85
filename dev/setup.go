package main

import (
	"fmt"
	"os"
	"path/filepath"

	devenv "pocheclient/dev/env"
)

const wallabagConfigTemplate = `{
  // a disposable account on a test server, the edit tests toggle article_id
  base_url: "http://localhost:8080/",
  username: "poche",
  password: "poche",
  article_id: 1,
}
`

const telemetryConfigTemplate = `{
  otlp: {
    traces: { http_endpoint: "http://localhost:4318/v1/traces" },
    metrics: { http_endpoint: "http://localhost:4318/v1/metrics" },
  },
}
`

// writeTemplate creates the file under the dev state directory unless it
// already exists.
func writeTemplate(filename, contents string) error {
	path, err := devenv.ResolvePath(filepath.Join("<dev_state>", filename))
	if err != nil {
		return err
	}

	_, err = os.Stat(path)
	if err == nil {
		fmt.Println("config already created at", path)
		return nil
	}

	fmt.Println("creating config at", path)
	return os.WriteFile(path, []byte(contents), 0600)
}

func CreateTemplates() error {
	err := writeTemplate(devenv.WallabagTestConfigFile, wallabagConfigTemplate)
	if err != nil {
		return err
	}
	return writeTemplate("telemetry.json5", telemetryConfigTemplate)
}
