// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"fmt"
	goio "io"
	"log"
	"os"

	"github.com/ezrec/intcode/config"
	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/emulator"
	"github.com/ezrec/intcode/io"
)

func main() {
	var program string
	var conf string
	var input string
	var output string
	var ascii bool
	var verbose bool
	var noun int64
	var verb int64
	var search int64
	var limit int64
	var phases string
	var feedback bool
	var disasm bool
	var assemble string
	var save string
	var load string

	flag.StringVar(&program, "p", "", "Program text file, or '-' for stdin")
	flag.StringVar(&conf, "c", "", ".toml run configuration")
	flag.StringVar(&input, "i", "-", "Tape input")
	flag.StringVar(&output, "o", "-", "Tape output")
	flag.BoolVar(&ascii, "a", false, "ASCII tapes")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.Int64Var(&noun, "noun", 0, "Value for address 1")
	flag.Int64Var(&verb, "verb", 0, "Value for address 2")
	flag.Int64Var(&search, "search", 0, "Search nouns and verbs for this address 0 result")
	flag.Int64Var(&limit, "limit", emulator.SEARCH_LIMIT, "Search range for nouns and verbs")
	flag.StringVar(&phases, "phases", "", "Comma separated chain phases")
	flag.BoolVar(&feedback, "feedback", false, "Run chain phases in a feedback loop")
	flag.BoolVar(&disasm, "d", false, "Disassemble the program, do not execute")
	flag.StringVar(&assemble, "asm", "", ".ic file to assemble to program text, do not execute")
	flag.StringVar(&save, "save", "", "Save a snapshot when halted or starved")
	flag.StringVar(&load, "load", "", "Resume from a snapshot")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	// Assemble a program text.
	if len(assemble) != 0 {
		inf, err := os.Open(assemble)
		if err != nil {
			log.Fatalf("%v: %v", assemble, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		prog, err := asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", assemble, err)
		}
		fmt.Println(cpu.FormatProgram(prog))
		return
	}

	run := &config.Run{}
	if len(conf) != 0 {
		var err error
		run, err = config.Load(conf)
		if err != nil {
			log.Fatalf("%v: %v", conf, err)
		}
	}

	// Explicit flags override the configuration.
	var flagErr error
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "p":
			run.Program = program
			run.Text = ""
		case "a":
			run.Ascii = ascii
		case "v":
			run.Verbose = verbose
		case "noun":
			run.Noun = &noun
		case "verb":
			run.Verb = &verb
		case "search":
			if run.Search == nil {
				run.Search = &config.Search{}
			}
			run.Search.Target = search
			run.Search.Limit = limit
		case "limit":
			if run.Search != nil {
				run.Search.Limit = limit
			}
		case "phases":
			run.Phases, flagErr = cpu.ParseProgram(phases)
		case "feedback":
			run.Feedback = feedback
		}
	})
	if flagErr != nil {
		log.Fatalf("-phases: %v", flagErr)
	}

	var m *cpu.Machine
	if len(load) != 0 {
		err := run.ValidateResume()
		if err != nil {
			log.Fatalf("%v: %v", load, err)
		}

		inf, err := os.Open(load)
		if err != nil {
			log.Fatalf("%v: %v", load, err)
		}
		snap, err := cpu.UnmarshalSnapshot(inf)
		inf.Close()
		if err != nil {
			log.Fatalf("%v: %v", load, err)
		}
		m, err = cpu.Restore(snap)
		if err != nil {
			log.Fatalf("%v: %v", load, err)
		}
	} else {
		if run.Program == "-" {
			data, err := goio.ReadAll(os.Stdin)
			if err != nil {
				log.Fatalf("stdin: %v", err)
			}
			run.Program = ""
			run.Text = string(data)
			if input == "-" {
				input = ""
			}
		}

		err := run.Validate()
		if err != nil {
			log.Fatalf("%v: %v", os.Args[0], err)
		}

		prog, err := run.Source()
		if err != nil {
			log.Fatalf("%v: %v", os.Args[0], err)
		}
		m = cpu.NewMachine(prog)
	}

	if disasm {
		for ip, text := range cpu.Disassemble(m.Program()) {
			fmt.Printf("%-32s ; %04d\n", text, ip)
		}
		return
	}

	if run.Search != nil {
		result, err := emulator.Search(m.Program(), run.Search.Target, run.Search.Limit)
		if err != nil {
			log.Fatalf("%v: %v", os.Args[0], err)
		}
		fmt.Println(result)
		return
	}

	if len(run.Phases) != 0 {
		ch := emulator.NewChain(m.Program(), run.Phases)
		ch.Verbose = run.Verbose

		var signal int64
		var err error
		if run.Feedback {
			signal, err = ch.RunFeedback(0)
		} else {
			signal, err = ch.Run(0)
		}
		if err != nil {
			log.Fatalf("%v: %v", os.Args[0], err)
		}
		fmt.Println(signal)
		return
	}

	emu := emulator.NewEmulator(nil)
	emu.Machine = m
	emu.Verbose = run.Verbose
	m.Verbose = run.Verbose

	if run.Noun != nil {
		m.Init(*run.Noun, *run.Verb)
	}
	m.Push(run.Inputs...)

	if len(input) != 0 {
		tape := &io.Tape{Ascii: run.Ascii}
		if input == "-" {
			tape.Input = os.Stdin
		} else {
			inf, err := os.Open(input)
			if err != nil {
				log.Fatalf("%v: %v", input, err)
			}
			defer inf.Close()
			tape.Input = inf
		}
		emu.Input = tape
	}

	tape := &io.Tape{Ascii: run.Ascii}
	if output == "-" {
		tape.Output = os.Stdout
	} else {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		tape.Output = ouf
	}
	emu.Output = tape

	err := emu.Run()
	if err != nil {
		if run.Verbose {
			log.Print(emu.String())
		}
		if !errors.Is(err, cpu.ErrInputStarved) || len(save) == 0 {
			log.Fatalf("%v: %v", os.Args[0], err)
		}
		log.Printf("%v: %v", os.Args[0], err)
	}

	if len(save) != 0 {
		ouf, err := os.Create(save)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		err = m.Snapshot().Marshal(ouf)
		if err != nil {
			ouf.Close()
			log.Fatalf("%v: %v", save, err)
		}
		err = ouf.Close()
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		return
	}

	if run.Noun != nil {
		value, _ := m.Read(0)
		fmt.Fprintln(tape.Output, value)
	}
}
