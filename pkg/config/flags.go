package config

import (
	"github.com/spf13/pflag"
)

// Flags are the command line options of the bot binary.
type Flags struct {
	EnvFile string
	Debug   bool
}

func ParseFlags(name string, args []string) (*Flags, error) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	f := &Flags{}
	fs.StringVar(&f.EnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	fs.BoolVar(&f.Debug, "debug", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}
