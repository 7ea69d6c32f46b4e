package cmd

import (
	"fmt"
	"testing"
)

func testFlagSet() *CommandFlagSet {
	return &CommandFlagSet{
		Flags: map[string]*CommandFlag{
			"title":  {Name: "title", Short: "t", Type: "string"},
			"by":     {Name: "by", Type: "string", Default: "folder"},
			"all":    {Name: "all", Short: "a", Type: "bool"},
			"width":  {Name: "width", Short: "w", Type: "int"},
			"folder": {Name: "folder", Short: "f", Type: "string", Required: true},
			"file":   {Name: "file", Type: "string", Multiple: true},
		},
	}
}

func TestParser_Parse(t *testing.T) {
	args, err := NewParser(testFlagSet()).Parse([]string{
		"-t", "Bus", "--folder=4203", "-a", "--width", "640", "--file", "a.jpg", "--file", "b.zip", "pos1", "--", "-literal",
	})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if args.String("title") != "Bus" || args.String("folder") != "4203" {
		t.Errorf("Unexpected string flags: %v", args.Flags)
	}
	if !args.Bool("all") || args.Int("width") != 640 {
		t.Errorf("Unexpected bool/int flags: %v", args.Flags)
	}
	if args.String("by") != "folder" {
		t.Errorf("Expected default for 'by', got %q", args.String("by"))
	}
	if fmt.Sprint(args.Strings("file")) != "[a.jpg b.zip]" {
		t.Errorf("Unexpected multiple flag: %v", args.Strings("file"))
	}
	if fmt.Sprint(args.Args) != "[pos1 -literal]" {
		t.Errorf("Unexpected positional args: %v", args.Args)
	}
}

func TestParser_ShortClusters(t *testing.T) {
	args, err := NewParser(testFlagSet()).Parse([]string{"-atBus", "-f4203", "--all=false", "-w", "12"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if args.String("title") != "Bus" || args.String("folder") != "4203" {
		t.Errorf("Expected values attached to short flags, got %v", args.Flags)
	}
	if args.Bool("all") {
		t.Error("Expected inline --all=false to override the clustered -a")
	}
	if args.Int("width") != 12 || len(args.Args) != 0 {
		t.Errorf("Unexpected parse result: %v %v", args.Flags, args.Args)
	}
}

func TestParser_Errors(t *testing.T) {
	parser := NewParser(testFlagSet())

	tests := map[string][]string{
		"unknown long":  {"--nope", "-f", "x"},
		"unknown short": {"-z", "-f", "x"},
		"missing value": {"-f", "x", "--title"},
		"required":      {"--title", "x"},
		"bad int":       {"-f", "x", "--width", "wide"},
		"bad bool":      {"-f", "x", "--all=maybe"},
	}

	for name, raw := range tests {
		t.Run(name, func(tst *testing.T) {
			if _, err := parser.Parse(raw); err == nil {
				tst.Errorf("Expected error for %v", raw)
			}
		})
	}
}

func TestSplitCommandLine(t *testing.T) {
	args, err := SplitCommandLine(`edit 42 --tags " red, blue ,,green" --title 'It''s' --category ""`)
	if err != nil {
		t.Fatalf("SplitCommandLine failed: %v", err)
	}

	expected := []string{"edit", "42", "--tags", " red, blue ,,green", "--title", "Its", "--category", ""}
	if fmt.Sprintf("%q", args) != fmt.Sprintf("%q", expected) {
		t.Errorf("Expected %q, got %q", expected, args)
	}

	if _, err := SplitCommandLine(`search "open`); err == nil {
		t.Error("Expected error for unterminated quote")
	}
}
