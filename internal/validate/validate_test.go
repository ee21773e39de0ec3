package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	URL  string `prop:"jdbc.url" validate:"omitempty,jdbcurl"`
	Port string `prop:"server.port" validate:"omitempty,port"`
	Name string `validate:"required"`
}

func TestJDBCURLTag(t *testing.T) {
	require.NoError(t, Var("jdbc:mysql://localhost:3306/typingthrower", "jdbcurl"))
	require.NoError(t, Var("jdbc:sqlite:/tmp/game.db", "jdbcurl"))
	require.Error(t, Var("mysql://localhost/db", "jdbcurl"))
	require.Error(t, Var("jdbc:", "jdbcurl"))
}

func TestStruct_UsesPropNames(t *testing.T) {
	require.NoError(t, Struct(sample{Name: "x"}))

	err := Struct(sample{URL: "http://nope", Port: "99999"})
	require.Error(t, err)

	problems := Problems(err)
	require.Len(t, problems, 3)
	assert.Contains(t, problems[0], "jdbc.url")
	assert.Contains(t, problems[1], "server.port")
	assert.Contains(t, problems[2], "Name")
}

func TestProblems_NonValidationError(t *testing.T) {
	assert.Nil(t, Problems(nil))
	assert.Equal(t, []string{"boom"}, Problems(errors.New("boom")))
}
