package main

import "github.com/shapestone/shape-csvtable/cmd/csvtable/cmd"

func main() {
	cmd.Execute()
}
