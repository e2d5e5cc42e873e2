// pkg/cleaner/pipeline.go
package cleaner

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/friskvard/wellness-etl/pkg/model"
	"github.com/friskvard/wellness-etl/pkg/vocab"
)

// Pipeline runs the full cleaning sequence over a raw dataset. The
// vocabularies are injected so tests can substitute their own tables.
type Pipeline struct {
	tiers      vocab.Map
	facilities vocab.Map
	statuses   vocab.Map
	sessions   vocab.Map
	logger     *zap.Logger
}

// NewPipeline creates a Pipeline with the standard vocabularies
func NewPipeline(logger *zap.Logger) (*Pipeline, error) {
	return NewPipelineWithVocabularies(
		logger,
		vocab.MembershipTiers,
		vocab.Facilities,
		vocab.SessionStatuses,
		vocab.SessionNames,
	)
}

// NewPipelineWithVocabularies creates a Pipeline with custom vocabularies
func NewPipelineWithVocabularies(
	logger *zap.Logger,
	tiers, facilities, statuses, sessions vocab.Map,
) (*Pipeline, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Pipeline{
		tiers:      tiers,
		facilities: facilities,
		statuses:   statuses,
		sessions:   sessions,
		logger:     logger,
	}, nil
}

// Transform cleans a raw dataset and returns the cleaned copy. The input
// dataset is never mutated.
//
// The step order is a contract:
//  1. exact-duplicate removal, defined on raw values
//  2. numeric conversions (cost sign split, birth-year coercion)
//  3. categorical canonicalization (tier, facility, status, session name)
//  4. missing-text defaulting, which must see canonicalized facility values
//  5. date parsing, 6. time parsing
//  7. dictionary encoding, which must see the final canonical strings
func (p *Pipeline) Transform(ds *model.Dataset) (*model.Dataset, error) {
	if ds == nil {
		return nil, errors.New("dataset cannot be nil")
	}

	if err := ds.RequireColumns(model.RequiredColumns...); err != nil {
		return nil, fmt.Errorf("input schema incomplete: %w", err)
	}

	rawRows := ds.NumRows()
	clean := ds.Clone().DropDuplicateRows()
	if dropped := rawRows - clean.NumRows(); dropped > 0 {
		p.logger.Info("Dropped exact-duplicate records", zap.Int("count", dropped))
	}

	steps := []struct {
		name string
		run  func(*model.Dataset) error
	}{
		{"split_cost_sign", p.splitCostSign},
		{"coerce_birth_year", p.coerceBirthYear},
		{"canonicalize_membership_tier", p.canonicalizer(model.ColMembershipTier, p.tiers)},
		{"canonicalize_facility", p.canonicalizer(model.ColFacility, p.facilities)},
		{"canonicalize_status", p.canonicalizer(model.ColStatus, p.statuses)},
		{"canonicalize_session_name", p.canonicalizer(model.ColSessionName, p.sessions)},
		{"fill_missing_text", p.fillMissingText},
		{"parse_dates", p.parseDates},
		{"parse_session_time", p.parseSessionTime},
		{"encode_categories", p.encodeCategories},
	}

	for _, step := range steps {
		if err := step.run(clean); err != nil {
			return nil, fmt.Errorf("cleaning step %s: %w", step.name, err)
		}
	}

	p.logger.Info("Transformed dataset",
		zap.Int("raw_rows", rawRows),
		zap.Int("clean_rows", clean.NumRows()),
		zap.Int("columns", clean.NumColumns()))

	return clean, nil
}
