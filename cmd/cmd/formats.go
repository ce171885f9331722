// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/ostafen/extfix/internal/signature"
	"github.com/spf13/cobra"
)

func DefineFormatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List all recognized file formats",
		Long: `The 'formats' command displays a table of all file formats the audit recognizes.
Each format includes its canonical extension, its name, the extensions accepted for it, the offset of its
magic bytes and the magic byte signatures used for detection. Formats with no canonical extension are
categories: any of their accepted extensions is considered correct.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         RunFormats,
	}
	return cmd
}

func RunFormats(cmd *cobra.Command, args []string) error {
	opts, err := parseOptions(cmd)
	if err != nil {
		return err
	}
	return printFormats(cmd.OutOrStdout(), opts.Catalog)
}

func printFormats(out io.Writer, cat *signature.Catalog) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EXT\tNAME\tACCEPTS\tOFFSET\tSIGNATURES")

	for _, sig := range cat.Signatures() {
		ext := sig.Ext
		if sig.IsCategory() {
			ext = "-"
		}

		accepts := "-"
		if len(sig.Alt) > 0 {
			accepts = strings.Join(sig.Alt, ",")
		}

		patterns := make([]string, len(sig.Patterns))
		for i, p := range sig.Patterns {
			patterns[i] = strings.ReplaceAll(signature.FormatPattern(p), " ", "")
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			ext,
			sig.Name,
			accepts,
			strconv.Itoa(sig.Offset),
			strings.Join(patterns, ","),
		)
	}
	return w.Flush()
}
