package java

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kilianp07/kelheim/config"
)

// ErrNoJar is returned when no simulation jar is configured.
var ErrNoJar = errors.New("java: no jar configured")

// Command is a process invocation.
type Command struct {
	Binary string
	Args   []string
	Dir    string
	Env    []string
}

// String renders the command line for logs and dry runs.
func (c Command) String() string {
	return strings.Join(append([]string{c.Binary}, c.Args...), " ")
}

// BuildCommand assembles
//
//	java -Xmx<heap> <args> -cp <jar> <main_class> --config <cfg> --modules <manifest>
func BuildCommand(cfg config.JavaConfig, configPath, manifestPath string) (Command, error) {
	if cfg.Jar == "" {
		return Command{}, ErrNoJar
	}
	cfg.SetDefaults()
	args := []string{fmt.Sprintf("-Xmx%s", cfg.MaxHeap)}
	args = append(args, cfg.Args...)
	args = append(args,
		"-cp", cfg.Jar,
		cfg.MainClass,
		"--config", configPath,
		"--modules", manifestPath,
	)
	return Command{Binary: cfg.Binary, Args: args}, nil
}
