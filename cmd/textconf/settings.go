package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"textconf/internal/diag"
	"textconf/internal/diagfmt"
	"textconf/internal/project"
	"textconf/internal/source"
)

// settingFlags registers the flags that override textconf.toml keys.
func settingFlags(fs *pflag.FlagSet) {
	def := project.DefaultSettings()
	fs.String("prefix", def.Prefix, "prefix inserted before rewritten placeholder names")
	fs.String("name", def.ClassName, "name of the root record")
	fs.String("target", def.Target, "generation target (python|yaml|schema)")
	fs.Int("max-width", def.MaxWidth, "maximum width of generated lines (0 disables wrapping)")
	fs.Int("indent", def.Indent, "indentation of generated code")
	fs.Int("jobs", def.Jobs, "max parallel workers (0=auto)")
	fs.String("separator", def.Separator, "document section separator line")
}

// loadSettings resolves built-in defaults < textconf.toml < command-line flags.
// Config errors are rendered as CFG diagnostics and reported as errFailed.
func loadSettings(cmd *cobra.Command) (project.Settings, error) {
	settings := project.DefaultSettings()

	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return settings, err
	}
	var cfg *project.Config
	if configPath != "" {
		cfg, err = project.Load(configPath)
	} else {
		cfg, _, err = project.Discover(".")
	}
	if err != nil {
		return settings, reportConfigError(cmd, err)
	}
	if cfg != nil {
		settings = cfg.Settings
	}

	flags := cmd.Flags()
	overrides := []struct {
		flag string
		str  *string
		num  *int
	}{
		{flag: "prefix", str: &settings.Prefix},
		{flag: "name", str: &settings.ClassName},
		{flag: "target", str: &settings.Target},
		{flag: "separator", str: &settings.Separator},
		{flag: "max-width", num: &settings.MaxWidth},
		{flag: "indent", num: &settings.Indent},
		{flag: "jobs", num: &settings.Jobs},
	}
	for _, o := range overrides {
		if flags.Lookup(o.flag) == nil || !flags.Changed(o.flag) {
			continue
		}
		if o.str != nil {
			if *o.str, err = flags.GetString(o.flag); err != nil {
				return settings, err
			}
			continue
		}
		if *o.num, err = flags.GetInt(o.flag); err != nil {
			return settings, err
		}
	}

	switch {
	case settings.MaxWidth < 0:
		return settings, fmt.Errorf("--max-width must be >= 0")
	case settings.Jobs < 0:
		return settings, fmt.Errorf("--jobs must be >= 0")
	case settings.Indent < 1 || settings.Indent > 16:
		return settings, fmt.Errorf("--indent must be between 1 and 16")
	case settings.ClassName == "":
		return settings, fmt.Errorf("--name must not be empty")
	case settings.Separator == "":
		return settings, fmt.Errorf("--separator must not be empty")
	}
	return settings, nil
}

func reportConfigError(cmd *cobra.Command, err error) error {
	fileSet := source.NewFileSet()
	bag := diag.NewBag(1)
	if !project.ReportError(fileSet, err, diag.BagReporter{Bag: bag}) {
		return err
	}
	diagfmt.Pretty(os.Stderr, bag, fileSet, diagfmt.PrettyOpts{Color: useColor(cmd)})
	return errFailed
}
