package chem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSiteOrder(t *testing.T) {
	st := DefaultSiteTable()
	assert.Equal(t, []string{
		"K", "Rb", "Cs", "MA", "FA",
		"Ca", "Sr", "Ba", "Ge", "Sn", "Pb",
		"Cl", "Br", "I",
	}, st.Order())
}

func TestSiteRole(t *testing.T) {
	st := DefaultSiteTable()

	role, ok := st.Role("MA")
	require.True(t, ok)
	assert.Equal(t, SiteA, role)

	role, ok = st.Role("Sn")
	require.True(t, ok)
	assert.Equal(t, SiteB, role)

	role, ok = st.Role("I")
	require.True(t, ok)
	assert.Equal(t, SiteX, role)

	_, ok = st.Role("Bi")
	assert.False(t, ok)
}

func TestSiteMembersCopy(t *testing.T) {
	st := DefaultSiteTable()
	m := st.Members(SiteX)
	m[0] = "F"
	assert.Equal(t, DefaultXSite, st.Members(SiteX))
	assert.Nil(t, st.Members(Site(7)))
}

func TestNewSiteTableRejectsOverlap(t *testing.T) {
	_, err := NewSiteTable([]string{"Cs"}, []string{"Pb", "Cs"}, []string{"I"})
	assert.ErrorIs(t, err, ErrDuplicateSiteMember)
}

func TestSiteString(t *testing.T) {
	assert.Equal(t, "A", SiteA.String())
	assert.Equal(t, "B", SiteB.String())
	assert.Equal(t, "X", SiteX.String())
	assert.Equal(t, "Site(5)", Site(5).String())
}
