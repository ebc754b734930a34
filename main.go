package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gookit/color"
	"github.com/leonelquinteros/gotext"

	"mapforge/pkg/mapgen"
	"mapforge/pkg/mapgen/arena"
	"mapforge/pkg/mapgen/style"
	"mapforge/pkg/render"
)

func initGotext() {
	gotext.Configure("po", "en_GB", "default")
}

// fatal prints an error message and exits
func fatal(msg string, a ...any) {
	fmt.Fprintln(os.Stderr, color.Red.Sprintf(msg, a...))
	os.Exit(1)
}

func listStyles() {
	fmt.Println(gotext.Get("Available styles:"))
	for _, s := range style.All() {
		fmt.Printf("  %s\n", s)
	}
}

func printSummary(m *mapgen.Map, seed int64) {
	stats := m.Stats()
	fmt.Println(gotext.Get("Rooms: %d  Doors: %d  Cells: %d  Seed: %d",
		stats.Rooms, stats.Doors, stats.CellCount, seed))
	for _, role := range []arena.Role{arena.RoleSave, arena.RoleNavigation, arena.RoleItem, arena.RoleConnector} {
		if n := stats.Roles[role]; n > 0 {
			fmt.Printf("  %s: %d\n", role, n)
		}
	}
}

func main() {
	cols := flag.Int("cols", 48, "canvas width in cells")
	rows := flag.Int("rows", 24, "canvas height in cells")
	styleName := flag.String("style", style.CastlevaniaI.String(), "generation style (see -list-styles)")
	seed := flag.Int64("seed", 0, "generation seed; 0 derives one from the clock")
	list := flag.Bool("list-styles", false, "print available styles and exit")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Parse()

	initGotext()

	if *list {
		listStyles()
		return
	}

	s, err := style.Parse(*styleName)
	if err != nil {
		fatal(gotext.Get("unknown style %q, try -list-styles", *styleName))
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	m, err := mapgen.GenerateSeeded(*cols, *rows, s, *seed)
	if err != nil {
		fatal(gotext.Get("generation failed: %s", err))
	}

	r := render.New()
	r.Init()
	if *noColor || !r.Fits(m) {
		fmt.Print(r.Plain(m))
	} else {
		fmt.Print(r.Render(m))
	}
	printSummary(m, *seed)
}
