package query

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/c-bata/go-prompt"

	"github.com/revelaction/depnorm/feature"
	"github.com/revelaction/depnorm/match"
	"github.com/revelaction/depnorm/render"
	"github.com/revelaction/depnorm/search"
	"github.com/revelaction/depnorm/storage"
)

const (
	quit = "quit"

	// candidates fetched per page
	pageSize = 500
)

type Handler struct {
	DocRepo  storage.DocReader
	Renderer *render.Renderer
	Out      io.Writer
}

func NewHandler(dr storage.DocReader, r *render.Renderer, out io.Writer) *Handler {
	return &Handler{
		DocRepo:  dr,
		Renderer: r,
		Out:      out,
	}
}

func (h *Handler) Run() error {
	fmt.Fprintln(h.Out, "🔑 Ctrl+X: Toggle prefix, Ctrl+F: next Format, 🔧 quit")

	docs, err := h.DocRepo.List("")
	if err != nil {
		return err
	}
	for _, d := range docs {
		h.Renderer.AddDocName(d.Id, d.Title)
	}

	// initialize prompt history
	history := []string{}

	for {
		in := prompt.Input("      🔖 ", h.completer,
			prompt.OptionTitle("depnorm query"),
			prompt.OptionPrefixTextColor(prompt.Yellow),
			prompt.OptionPreviewSuggestionTextColor(prompt.Blue),
			prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
			prompt.OptionMaxSuggestion(12),
			prompt.OptionSuggestionBGColor(prompt.DarkGray),
			prompt.OptionHistory(history),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlF,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextFormat()
					fmt.Fprintln(h.Out, "Format set to: "+h.Renderer.Format)
				}}),
			prompt.OptionAddKeyBind(prompt.KeyBind{
				Key: prompt.ControlX,
				Fn: func(buf *prompt.Buffer) {
					h.Renderer.NextPrefix()
					fmt.Fprintf(h.Out, "Prefix set to %t\n", h.Renderer.HasPrefix)
				}}),
		)

		in = strings.TrimSpace(in)
		if in == quit {
			return nil
		}
		if in == "" {
			continue
		}

		history = append(history, in)
		if err := h.eval(in); err != nil {
			fmt.Fprintf(h.Out, "Error: %v\n", err)
		}
	}
}

// eval parses in as a match expression, searches the repository and renders
// the matched sentences.
func (h *Handler) eval(in string) error {
	expr, err := match.Parse(strings.Fields(in))
	if err != nil {
		return err
	}

	results, err := search.New(h.DocRepo).All(expr, pageSize)
	if err != nil {
		return err
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].DocID != results[j].DocID {
			return results[i].DocID < results[j].DocID
		}
		return results[i].SentenceIndex < results[j].SentenceIndex
	})

	h.Renderer.Match(results)
	return nil
}

// universal dependency relations
var depLabels = []string{
	"acl", "advcl", "advmod", "amod", "appos", "aux", "case", "cc", "ccomp",
	"clf", "compound", "conj", "cop", "csubj", "dep", "det", "discourse",
	"dislocated", "expl", "fixed", "flat", "goeswith", "iobj", "list", "mark",
	"nmod", "nsubj", "nummod", "obj", "obl", "orphan", "parataxis", "punct",
	"reparandum", "root", "vocative", "xcomp",
}

// tag attribute names offered by the completer
var attrNames = []string{feature.NameUPosTag, feature.NameXPosTag, feature.NameLemma, "number", "gender", "person", "tense", "mood"}

func (h *Handler) completer(in prompt.Document) []prompt.Suggest {
	word := in.GetWordBeforeCursor()
	if word == "" {
		return nil
	}

	return h.suggest(word)
}

func (h *Handler) suggest(word string) []prompt.Suggest {
	var s []prompt.Suggest

	if strings.HasPrefix(word, "@") {
		for _, l := range depLabels {
			if strings.HasPrefix("@"+l, word) {
				s = append(s, prompt.Suggest{Text: "@" + l, Description: "dependency label"})
			}
		}
		return s
	}

	for _, name := range attrNames {
		if strings.HasPrefix(name, word) {
			s = append(s, prompt.Suggest{Text: name + feature.FeatureSeparator, Description: "tag attribute"})
		}
	}

	if strings.HasPrefix(quit, word) {
		s = append(s, prompt.Suggest{Text: quit, Description: "🔧 exit"})
	}

	return s
}
