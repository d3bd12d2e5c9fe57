package main

import "lifesystem/cmd/lifesystem/root"

func main() {
	root.Execute()
}
