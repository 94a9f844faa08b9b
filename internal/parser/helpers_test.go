package parser

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/require"
)

func parseElement(t *testing.T, src string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(src))
	require.NotNil(t, doc.Root())
	return doc.Root()
}

func defaultResolvers() *Resolvers {
	opts := DefaultOptions()
	return NewResolvers(opts.Schema, ResolverOptions{
		Regions:        opts.Regions,
		LegacyTrimMax:  opts.LegacyTrimMax,
		UnifiedTrimMax: opts.UnifiedTrimMax,
	})
}

func defaultExtractor() *EntityExtractor {
	opts := DefaultOptions()
	return NewEntityExtractor(opts.Schema, defaultResolvers(), ExtractorOptions{ShortNameMinLen: opts.ShortNameMinLen})
}
