package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParty(t *testing.T) {
	p, err := ParseParty("person1")
	require.NoError(t, err)
	assert.Equal(t, Person1, p)

	p, err = ParseParty("person2")
	require.NoError(t, err)
	assert.Equal(t, Person2, p)

	_, err = ParseParty("person3")
	assert.Error(t, err)

	_, err = ParseParty("")
	assert.Error(t, err)
}

func TestPartyOther(t *testing.T) {
	assert.Equal(t, Person2, Person1.Other())
	assert.Equal(t, Person1, Person2.Other())
}

func TestPartyValid(t *testing.T) {
	assert.True(t, Person1.Valid())
	assert.True(t, Person2.Valid())
	assert.False(t, Party("both").Valid())
}
