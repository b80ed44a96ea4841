package batch

import (
	"errors"
	"path/filepath"

	"ocrmatch/internal/cabinet"
	"ocrmatch/internal/corrector"
)

// WriteOutputs appends the categorized lines of rep to their files in dir.
// Repeated runs over several token files therefore accumulate.
func WriteOutputs(dir string, rep *Report) error {
	return errors.Join(
		cabinet.AppendLines(filepath.Join(dir, cabinet.FailedWords), rep.Failed),
		cabinet.AppendLines(filepath.Join(dir, cabinet.TailWords), rep.Tails),
		cabinet.AppendLines(filepath.Join(dir, cabinet.RuleSet), rep.Rules),
		cabinet.AppendLines(filepath.Join(dir, cabinet.AddToDictionary), rep.AddToDictionary),
	)
}

// WriteLearning writes prior plus everything learned into the count table
// in dir, and the insertion-pattern report beside it. It returns the table
// that was written.
func WriteLearning(dir string, prior *corrector.CountTable, learned *corrector.Accumulator) (*corrector.CountTable, error) {
	updated := prior.Add(&learned.Substitutions)
	if err := cabinet.WriteCountTable(filepath.Join(dir, cabinet.CharMatrix), updated); err != nil {
		return nil, err
	}
	if err := cabinet.WriteInsertionReport(filepath.Join(dir, cabinet.InsertionReport), learned.InsertionReport()); err != nil {
		return nil, err
	}
	return updated, nil
}
