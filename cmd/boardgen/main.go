// Command boardgen lays out a board the way the server does for a first
// move and prints it, which helps when checking placement by eye.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gookit/color"
	"golang.org/x/term"

	"github.com/vancomm/minefield/internal/mines"
)

var numberStyles = [9]color.Style{
	{color.FgGray},
	{color.FgBlue},
	{color.FgGreen},
	{color.FgRed},
	{color.FgMagenta},
	{color.FgYellow},
	{color.FgCyan},
	{color.FgWhite, color.OpBold},
	{color.FgGray, color.OpBold},
}

var (
	mineStyle   = color.Style{color.FgLightRed, color.OpBold}
	anchorStyle = color.Style{color.BgGreen, color.FgBlack}
	hiddenStyle = color.Style{color.FgDarkGray}
)

func parseSettings(difficulty string, rows, cols, count int) (mines.Settings, error) {
	d, err := mines.ParseDifficulty(difficulty)
	if err != nil {
		return mines.Settings{}, err
	}
	if d == mines.Custom {
		return mines.CustomSettings(rows, cols, count), nil
	}
	return mines.Presets[d], nil
}

func cellSymbol(b *mines.Board, p, anchor mines.Point) string {
	c := b.At(p)
	switch {
	case p == anchor:
		return anchorStyle.Sprint(fmt.Sprint(c.AdjacentMines))
	case c.Mine:
		return mineStyle.Sprint("*")
	case c.AdjacentMines == 0:
		return numberStyles[0].Sprint(".")
	default:
		return numberStyles[c.AdjacentMines].Sprint(fmt.Sprint(c.AdjacentMines))
	}
}

func printBoard(b *mines.Board, anchor mines.Point) {
	for row := range b.Rows {
		symbols := make([]string, 0, b.Cols)
		for col := range b.Cols {
			symbols = append(symbols, cellSymbol(b, mines.Point{Row: row, Col: col}, anchor))
		}
		fmt.Println(strings.Join(symbols, " "))
	}
}

func printGrid(g mines.Grid, cols int) {
	for _, line := range strings.Split(strings.TrimSuffix(g.ToString(cols), "\n"), "\n") {
		fmt.Println(strings.ReplaceAll(line, "-", hiddenStyle.Sprint("-")))
	}
}

func main() {
	var (
		difficulty = flag.String("difficulty", "easy", "easy, medium, hard or custom")
		rows       = flag.Int("rows", 9, "rows of a custom board")
		cols       = flag.Int("cols", 9, "columns of a custom board")
		count      = flag.Int("mines", 10, "mines on a custom board")
		row        = flag.Int("row", -1, "row of the first move, the middle by default")
		col        = flag.Int("col", -1, "column of the first move, the middle by default")
		seed       = flag.Uint64("seed", 0, "placement seed, random when zero")
		player     = flag.Bool("player", false, "also print what the player sees after the first move")
	)
	flag.Parse()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		color.Disable()
	}

	settings, err := parseSettings(*difficulty, *rows, *cols, *count)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && settings.Cols*2 > width {
		fmt.Fprintf(os.Stderr, "board is %d columns wide, the terminal only %d\n", settings.Cols*2, width)
	}

	s := mines.NewSeed()
	if *seed != 0 {
		s = [2]uint64{*seed, *seed}
	}
	game, err := mines.NewGame(settings, s)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	anchor := mines.Point{Row: settings.Rows / 2, Col: settings.Cols / 2}
	if *row >= 0 {
		anchor.Row = *row
	}
	if *col >= 0 {
		anchor.Col = *col
	}
	if _, err := game.Reveal(anchor); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("%s seed=%d,%d first move %s\n", settings, s[0], s[1], anchor)
	printBoard(game.Board, anchor)

	if *player {
		fmt.Printf("\n%s after the first move\n", game.Status)
		printGrid(game.PlayerGrid(), settings.Cols)
	}
}
