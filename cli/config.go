package cli

import (
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// envPrefix is the prefix of the environment variables which set flags,
// TSORACLE_DATA_DIR sets --data-dir.
const envPrefix = "TSORACLE"

// configFs is the filesystem the config file is read from
var configFs afero.Fs = afero.NewOsFs()

// initConfig sets the flags of cmd which were not given on the command line
// from the environment or the config file, in that order of precedence.
func initConfig(cmd *cobra.Command) error {
	config := viper.New()
	config.SetFs(configFs)
	if rootCtx.configFile != "" {
		config.SetConfigFile(rootCtx.configFile)
		if err := config.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read config file %s", rootCtx.configFile)
		}
	}
	config.SetEnvPrefix(envPrefix)
	config.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	config.AutomaticEnv()

	var unset []string
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if !f.Changed && config.IsSet(f.Name) {
			unset = append(unset, f.Name)
		}
	})
	var result *multierror.Error
	for _, name := range unset {
		if err := cmd.Flags().Set(name, config.GetString(name)); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "invalid value for %s", name))
		}
	}
	return result.ErrorOrNil()
}
