package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const configTemplate = `{
  // the Cookie header of a logged in WebReg tab, can also be given with
  // WEBREG_COOKIES in dev/.state/.env
  cookies: "",
  term: "FA24",
  requests_per_second: 5,
  cloudflare_bypass: false,
  watch: {
    interval: "1m",
    courses: [],
  },
  smtp: {
    host: "",
    port: 587,
    username: "",
    password: "",
    from: "",
    to: "",
  },
}
`

const envTemplate = `WEBREG_COOKIES=
WEBREG_TERM=
`

func writeIfMissing(path, contents string) error {
	_, err := os.Stat(path)
	if err == nil {
		slog.Info("keeping existing file", "path", path)
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	slog.Info("writing template", "path", path)
	return os.WriteFile(path, []byte(contents), 0600)
}

func create(recreate bool) error {
	_, err := os.Stat("go.mod")
	if os.IsNotExist(err) {
		return fmt.Errorf("the dev environment must be created in the repository root (the same directory as the 'go.mod' file)")
	}

	if recreate {
		err = os.RemoveAll("dev/.state")
		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	err = os.MkdirAll("dev/.state/http", 0777)
	if err != nil && !os.IsExist(err) {
		return err
	}

	err = writeIfMissing(filepath.Join("dev", ".state", "webreg.json5"), configTemplate)
	if err != nil {
		return err
	}
	return writeIfMissing(filepath.Join("dev", ".state", ".env"), envTemplate)
}

func main() {
	recreate := flag.Bool("recreate", false, "recreate the dev environment from scratch")
	flag.Parse()

	err := create(*recreate)
	if err != nil {
		slog.Error("failed to create dev environment", "err", err.Error())
		os.Exit(1)
	}

	slog.Info("dev environment created sucessfully!")
}
