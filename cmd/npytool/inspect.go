package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/potocpav/npy-rs/npy"
	"github.com/potocpav/npy-rs/npz"
)

type headerJSON struct {
	Descr        string `json:"descr"`
	FortranOrder bool   `json:"fortran_order"`
	Shape        []int  `json:"shape"`
	Records      int    `json:"records"`
	GoType       string `json:"go_type"`
}

func headerCmd() *cli.Command {
	var asJSON bool

	return &cli.Command{
		Name:      "header",
		Usage:     "Print the header of an .npy file",
		ArgsUsage: "<file.npy>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "emit JSON", Destination: &asJSON},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() < 1 {
				return cli.Exit("usage: npytool header <file.npy>", 2)
			}
			b, err := os.ReadFile(cmd.Args().First())
			if err != nil {
				return err
			}
			d, err := npy.FromBytesAny(b)
			if err != nil {
				return err
			}
			return printHeader(d, asJSON)
		},
	}
}

func printHeader(d *npy.AnyData, asJSON bool) error {
	h := d.Header()
	if asJSON {
		out, err := json.MarshalIndent(headerJSON{
			Descr:        h.Descr.Descr(),
			FortranOrder: h.FortranOrder,
			Shape:        h.Shape,
			Records:      d.Len(),
			GoType:       d.GoType().String(),
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("descr:         %s\n", h.Descr.Descr())
	fmt.Printf("fortran_order: %v\n", h.FortranOrder)
	fmt.Printf("shape:         %v\n", h.Shape)
	fmt.Printf("go type:       %s\n", d.GoType())
	return nil
}

func dumpCmd() *cli.Command {
	var (
		limit  int
		asJSON bool
	)

	return &cli.Command{
		Name:      "dump",
		Usage:     "Print decoded records of an .npy file",
		ArgsUsage: "<file.npy>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Usage: "max records to print (0 = all)", Value: 20, Destination: &limit},
			&cli.BoolFlag{Name: "json", Usage: "emit one JSON value per record", Destination: &asJSON},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() < 1 {
				return cli.Exit("usage: npytool dump <file.npy>", 2)
			}
			b, err := os.ReadFile(cmd.Args().First())
			if err != nil {
				return err
			}
			d, err := npy.FromBytesAny(b)
			if err != nil {
				return err
			}

			n := d.Len()
			if limit > 0 && n > limit {
				n = limit
			}
			for i := 0; i < n; i++ {
				if asJSON {
					out, err := json.Marshal(d.Get(i))
					if err != nil {
						return err
					}
					fmt.Println(string(out))
				} else {
					fmt.Printf("%d: %+v\n", i, d.Get(i))
				}
			}
			if n < d.Len() {
				fmt.Fprintf(os.Stderr, "... %d more records\n", d.Len()-n)
			}
			return nil
		},
	}
}

func listCmd() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List the arrays of an .npz archive",
		ArgsUsage: "<file.npz>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() < 1 {
				return cli.Exit("usage: npytool list <file.npz>", 2)
			}
			a, err := npz.Open(cmd.Args().First())
			if err != nil {
				return err
			}
			defer a.Close()

			for _, name := range a.Names() {
				b, err := a.Bytes(name)
				if err != nil {
					return err
				}
				d, err := npy.FromBytesAny(b)
				if err != nil {
					fmt.Printf("%-24s (unreadable: %v)\n", name, err)
					continue
				}
				h := d.Header()
				fmt.Printf("%-24s %-32s shape=%v\n", name, h.Descr.Descr(), h.Shape)
			}
			return nil
		},
	}
}
