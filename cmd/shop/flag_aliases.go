package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var participantFlagAliases = map[string]string{
	"participant": "uid",
}

func addParticipantFlagAliases(cmd *cobra.Command) {
	cmd.SetGlobalNormalizationFunc(aliasNormalizer(participantFlagAliases, cmd.GlobalNormalizationFunc()))
}

func setFlagAliases(flags *pflag.FlagSet, aliases map[string]string) {
	if len(aliases) == 0 {
		return
	}
	flags.SetNormalizeFunc(aliasNormalizer(aliases, flags.GetNormalizeFunc()))
}

func aliasNormalizer(aliases map[string]string, next func(*pflag.FlagSet, string) pflag.NormalizedName) func(*pflag.FlagSet, string) pflag.NormalizedName {
	return func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if alias, ok := aliases[name]; ok {
			name = alias
		}
		if next == nil {
			return pflag.NormalizedName(name)
		}
		return next(f, name)
	}
}
