package main

import "fmt"

var buildVersion = "dev"
var buildCommitID = "unknown"

// buildVariant is the variant baked into a build with
// -ldflags "-X main.buildVariant=A".
var buildVariant = ""

func init() {
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func versionString() string {
	variant := buildVariant
	if variant == "" {
		variant = "-"
	}
	return fmt.Sprintf("version %s\ncommit_id %s\nvariant %s", buildVersion, buildCommitID, variant)
}
