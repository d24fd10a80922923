package main

import "github.com/LegacyCodeHQ/modguard/cmd"

func main() {
	cmd.Execute()
}
