// Package sh provides an interactive shell to decode receiver bytes by hand.
package sh

import (
	"flag"
	"log"
	"os"

	"github.com/abiosoft/ishell"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool

	Shell *ishell.Shell
	Bench *Bench
}

const (
	shellKey = "$shell"
	prompt   = "rcrx > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&FeedCmd,
		&FrameCmd,
		&ChannelsCmd,
		&RawCmd,
		&ClearCmd,
		&ResetCmd,
		&StatsCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New() *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		Shell:       ishell.New(),
		Bench:       NewBench(os.Stdout),
	}
	s.Bench.OutputJSON = outputJSON
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(prompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

func benchCmd(fn func(c *ishell.Context, b *Bench) error) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if err := fn(c, ShellFrom(c).Bench); err != nil {
			c.Err(err)
		}
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// FeedCmd feeds hex bytes into the decoder.
	FeedCmd = ishell.Cmd{
		Name:    "feed",
		Aliases: []string{"f"},
		Help:    "HEX...",
		Func: benchCmd(func(c *ishell.Context, b *Bench) error {
			data, err := ParseHex(c.Args)
			if err != nil {
				return err
			}
			return b.Feed(data)
		}),
	}

	// FrameCmd encodes a frame and feeds it into the decoder.
	FrameCmd = ishell.Cmd{
		Name: "frame",
		Help: "ID [CH=]PULSE...",
		Func: benchCmd(func(c *ishell.Context, b *Bench) error {
			data, err := ParseFrame(c.Args)
			if err != nil {
				return err
			}
			return b.Feed(data)
		}),
	}

	// ChannelsCmd prints normalized channel values.
	ChannelsCmd = ishell.Cmd{
		Name:    "channels",
		Aliases: []string{"ch"},
		Func: benchCmd(func(c *ishell.Context, b *Bench) error {
			return b.PrintChannels()
		}),
	}

	// RawCmd prints raw pulses.
	RawCmd = ishell.Cmd{
		Name: "raw",
		Func: benchCmd(func(c *ishell.Context, b *Bench) error {
			return b.PrintRaw()
		}),
	}

	// ClearCmd acknowledges a ready cycle.
	ClearCmd = ishell.Cmd{
		Name: "clear",
		Func: benchCmd(func(c *ishell.Context, b *Bench) error {
			b.Decoder.Clear()
			return nil
		}),
	}

	// ResetCmd resets the decoder.
	ResetCmd = ishell.Cmd{
		Name: "reset",
		Func: benchCmd(func(c *ishell.Context, b *Bench) error {
			b.Reset()
			return nil
		}),
	}

	// StatsCmd prints decoder counters.
	StatsCmd = ishell.Cmd{
		Name: "stats",
		Func: benchCmd(func(c *ishell.Context, b *Bench) error {
			return b.PrintStats()
		}),
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New().Run(flag.Args()...)
}
