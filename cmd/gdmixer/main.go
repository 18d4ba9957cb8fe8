/*
gdmixer rewrites the scripts and scene files of a Godot project tree so
that user-chosen identifiers are replaced with opaque tokens while
engine-reserved names, resource references, and translation keys stay
intact.
*/
package main

import (
	"github.com/whit3rabbit/gdmixer/cmd/gdmixer/cmd"
)

func main() {
	cmd.Execute()
}
