package console

import (
	"fmt"
	"io"

	"github.com/viant/brigade/model"
	"github.com/viant/brigade/service/order"
)

// PrintHelp writes the command reference
func PrintHelp(w io.Writer) {
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  status      display every worker load and stock")
	fmt.Fprintln(w, "  status F    only workers matching F: idle busy silent responsive <worker id>")
	fmt.Fprintln(w, "  config      display the effective configuration")
	fmt.Fprintln(w, "  help        display this help")
	fmt.Fprintln(w, "  quit, exit  close every worker and leave")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Order format: %s\n", order.Format)
	fmt.Fprint(w, "  Types:")
	for _, kind := range model.Kinds() {
		fmt.Fprintf(w, " %v", kind)
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, "  Sizes:")
	for _, size := range model.Sizes() {
		fmt.Fprintf(w, " %v", size)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Example: %s\n", order.Example)
}
