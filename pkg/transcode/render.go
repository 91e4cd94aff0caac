package transcode

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"

	"github.com/Pavel7004/hdrconst/pkg/domain"
)

// renderSection writes one aligned declaration per definition, in order.
func renderSection(w io.Writer, sec *domain.Section, keyword string, labels domain.TypeLabels) error {
	nameWidth := sec.NameWidth()
	typeWidth := sec.TypeWidth(labels)

	for _, d := range sec.Definitions {
		_, err := fmt.Fprintf(w, "%s %s : %s = %s;\n",
			keyword,
			runewidth.FillRight(d.Name, nameWidth),
			runewidth.FillRight(labels.For(d.Kind), typeWidth),
			d.Value)
		if err != nil {
			return err
		}
	}
	return nil
}
