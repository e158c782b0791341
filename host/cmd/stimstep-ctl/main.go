package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"stimstep/host"
	hostserial "stimstep/host/serial"
)

var (
	device  = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud    = flag.Int("baud", 9600, "Baud rate (ignored for USB CDC)")
	aux     = flag.Float64("aux", 0, "Auxiliary value sent with every move")
	verbose = flag.Bool("verbose", false, "Print every status line from the device")
)

func main() {
	flag.Parse()

	cfg := hostserial.DefaultConfig(*device)
	cfg.Baud = *baud

	fmt.Printf("Connecting to %s...\n", cfg.Device)
	port, err := hostserial.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open %s: %v\n", cfg.Device, err)
		os.Exit(1)
	}
	defer port.Close()

	// Drop any stale bytes so a partial frame can't shift the framing.
	if err := port.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: flush %s: %v\n", cfg.Device, err)
		os.Exit(1)
	}

	client := host.NewClient(port, func(line string) {
		if *verbose {
			fmt.Printf("  %s\n", line)
		}
	})

	// One-shot mode: angles on the command line, no prompt.
	if flag.NArg() > 0 {
		for _, arg := range flag.Args() {
			if err := moveTo(client, arg); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}
		return
	}

	fmt.Println("Enter commands (type 'help' for available commands, 'quit' to exit):")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]

		switch cmd {
		case "quit", "exit", "q":
			return

		case "help", "?":
			printHelp()

		case "move":
			if len(parts) != 2 {
				fmt.Println("Usage: move <degrees>")
				continue
			}
			if err := moveTo(client, parts[1]); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}

		case "aux":
			if len(parts) != 2 {
				fmt.Println("Usage: aux <value>")
				continue
			}
			v, err := strconv.ParseFloat(parts[1], 32)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: bad value %q\n", parts[1])
				continue
			}
			*aux = v
			fmt.Printf("aux = %g\n", v)

		default:
			fmt.Printf("Unknown command: %s (type 'help' for available commands)\n", cmd)
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
}

func moveTo(client *host.Client, arg string) error {
	deg, err := strconv.ParseFloat(arg, 32)
	if err != nil {
		return fmt.Errorf("bad angle %q", arg)
	}
	fmt.Printf("Moving to %g deg...\n", deg)
	if err := client.Move(float32(*aux), float32(deg)); err != nil {
		return err
	}
	fmt.Println("Done.")
	return nil
}

func printHelp() {
	fmt.Println("\nAvailable commands:")
	fmt.Println("  move <degrees> - Move the axis to an absolute angle and wait")
	fmt.Println("  aux <value>    - Set the auxiliary value sent with each move")
	fmt.Println("  help           - Show this help message")
	fmt.Println("  quit/exit/q    - Exit the program")
	fmt.Println()
}
