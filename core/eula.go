package core

import (
	"os"

	"emperror.dev/errors"
)

// EulaFile is the name of the file the server reads EULA acceptance from.
const EulaFile = "eula.txt"

const eulaContents = "#By changing the setting below to TRUE you are indicating your agreement to our EULA (https://aka.ms/MinecraftEULA).\n" +
	"eula=true\n"

// WriteEula records EULA acceptance in dir, replacing any existing file.
func WriteEula(dir string) (string, error) {
	p := EulaPath(dir)
	if err := os.WriteFile(p, []byte(eulaContents), 0644); err != nil {
		return "", errors.Wrap(err, "failed to write EULA file")
	}
	return p, nil
}
