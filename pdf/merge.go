package pdf

import (
	"bytes"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"
)

// InputOutcome records what happened to one merge input.
type InputOutcome struct {
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Pages   int    `json:"pages"`
	Skipped bool   `json:"skipped"`
	Reason  string `json:"reason,omitempty"`
}

// MergeReport describes a completed merge.
type MergeReport struct {
	Outcomes []InputOutcome `json:"outcomes"`
	Pages    int            `json:"pages"`
}

// Skipped returns the outcomes of the inputs left out of the merge.
func (r *MergeReport) Skipped() []InputOutcome {
	var skipped []InputOutcome
	for _, o := range r.Outcomes {
		if o.Skipped {
			skipped = append(skipped, o)
		}
	}
	return skipped
}

// Merge concatenates the pages of inputs, in order, and writes the result to w.
// An input that cannot be decoded or has no pages is skipped and reported; the
// merge fails only when no input contributes a page.
func Merge(w io.Writer, inputs []Input, logger *zap.Logger) (*MergeReport, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(inputs) < 2 {
		return nil, ErrTooFewDocuments
	}

	logger.Info("merging PDF files", zap.Int("inputs", len(inputs)))

	report := &MergeReport{Outcomes: make([]InputOutcome, 0, len(inputs))}
	var survivors []*Document
	var sources []io.ReadSeeker

	for i, in := range inputs {
		outcome := InputOutcome{Index: i, Name: in.Name}

		doc, err := Decode(in.Data)
		switch {
		case err != nil:
			outcome.Skipped = true
			outcome.Reason = err.Error()
		case doc.PageCount() == 0:
			outcome.Skipped = true
			outcome.Reason = ErrEmptyDocument.Error()
		default:
			outcome.Pages = doc.PageCount()
			report.Pages += outcome.Pages
			survivors = append(survivors, doc)
			sources = append(sources, bytes.NewReader(in.Data))
		}

		if outcome.Skipped {
			logger.Warn("skipping PDF input",
				zap.Int("index", i),
				zap.String("name", in.Name),
				zap.String("reason", outcome.Reason),
			)
		} else {
			logger.Info("added PDF input",
				zap.Int("index", i),
				zap.String("name", in.Name),
				zap.Int("pages", outcome.Pages),
			)
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	if report.Pages == 0 {
		return nil, ErrNoValidPages
	}

	var err error
	if len(survivors) == 1 {
		err = survivors[0].Encode(w)
	} else {
		err = api.MergeRaw(sources, w, false, newConfiguration())
	}
	if err != nil {
		return nil, &TransformError{Op: "merge", Err: err}
	}

	logger.Info("merged PDF files",
		zap.Int("documents", len(survivors)),
		zap.Int("skipped", len(inputs)-len(survivors)),
		zap.Int("pages", report.Pages),
	)
	return report, nil
}
