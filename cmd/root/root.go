package root

import (
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "speckeeper",
	Short: "Service spec keeper",
	Long:  `speckeeper keeps the persisted desired-state records of supervised services: it loads, migrates, validates and serves service spec files`,
}
