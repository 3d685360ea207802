package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog(t *testing.T) {
	catalog, err := LoadCatalog("testdata/catalog.yaml")
	require.NoError(t, err)

	require.Len(t, catalog.TestTypes, 2)
	tt := catalog.TestTypes[0]
	assert.Equal(t, "sample-scale", tt.Slug)
	assert.Equal(t, "dominant-intelligence", tt.Algorithm)
	assert.Equal(t, 10.0, tt.MaxScore)
	require.Len(t, tt.Questions, 2)
	assert.Equal(t, "sc-q01", tt.Questions[0].ID)
	assert.Equal(t, 1, tt.Questions[0].Order)
	require.Len(t, tt.Questions[0].Options, 2)
	assert.Equal(t, 5.0, tt.Questions[0].Options[1].Score)

	require.Len(t, catalog.Configurations, 1)
	cfg := catalog.Configurations[0]
	assert.Equal(t, "sample-battery", cfg.Slug)
	require.Len(t, cfg.Tests, 2)
	assert.Equal(t, "sample-scale", cfg.Tests[0].TestType)
	assert.True(t, cfg.Tests[0].Required)
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := LoadCatalog("testdata/does-not-exist.yaml")
	require.Error(t, err)
}

func TestCatalogValidation(t *testing.T) {
	t.Run("duplicate test type slug", func(t *testing.T) {
		c := &CatalogFile{
			TestTypes: []CatalogTestType{{Slug: "dup"}, {Slug: "dup"}},
		}
		err := c.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate test type")
	})

	t.Run("configuration references unknown test type", func(t *testing.T) {
		c := &CatalogFile{
			TestTypes: []CatalogTestType{{Slug: "known"}},
			Configurations: []CatalogConfiguration{{
				Slug:  "bad",
				Tests: []CatalogConfigurationEntry{{TestType: "unknown", Order: 1}},
			}},
		}
		err := c.validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown test type")
	})

	t.Run("configuration with no tests", func(t *testing.T) {
		c := &CatalogFile{
			TestTypes:      []CatalogTestType{{Slug: "known"}},
			Configurations: []CatalogConfiguration{{Slug: "empty"}},
		}
		require.Error(t, c.validate())
	})
}

func TestQuestionOptionByValue(t *testing.T) {
	q := Question{Options: []Option{
		{Value: "a", Category: "visual"},
		{Value: "b", Category: "auditory"},
	}}

	opt := q.OptionByValue("b")
	require.NotNil(t, opt)
	assert.Equal(t, "auditory", opt.Category)

	assert.Nil(t, q.OptionByValue("z"))
}

func TestSessionStatusTerminal(t *testing.T) {
	assert.False(t, StatusStarted.Terminal())
	assert.False(t, StatusInProgress.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusAbandoned.Terminal())
	assert.True(t, StatusExpired.Terminal())
}

func TestIsDemoSessionID(t *testing.T) {
	assert.True(t, IsDemoSessionID("demo-1234"))
	assert.False(t, IsDemoSessionID("1234"))

	s := AssessmentSession{ID: DemoSessionPrefix + "abc"}
	assert.True(t, s.IsDemo())
}
