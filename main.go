package main

import (
	"Tunebox/cmd"
)

func main() {
	// cobra 在出错时会自行调用 os.Exit
	cmd.Execute()
}
