package cmd

import (
	_ "speckeeper/cmd/root"
	_ "speckeeper/cmd/server"
	_ "speckeeper/cmd/svc"
)
