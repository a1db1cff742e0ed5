package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServiceGroupSimple(t *testing.T) {
	sg, err := ParseServiceGroup("redis.cache")
	require.NoError(t, err)

	assert.Equal(t, "redis", sg.Service)
	assert.Equal(t, "cache", sg.Group)
	assert.True(t, sg.AppEnv.IsZero())
	assert.Empty(t, sg.Organization)
	assert.Equal(t, "redis.cache", sg.String())
}

func TestParseServiceGroupFull(t *testing.T) {
	sg, err := ParseServiceGroup("app.env#service.group@organization")
	require.NoError(t, err)

	assert.Equal(t, ApplicationEnvironment{Application: "app", Environment: "env"}, sg.AppEnv)
	assert.Equal(t, "service", sg.Service)
	assert.Equal(t, "group", sg.Group)
	assert.Equal(t, "organization", sg.Organization)
	assert.Equal(t, "app.env#service.group@organization", sg.String())
}

func TestParseServiceGroupInvalid(t *testing.T) {
	for _, in := range []string{"", "nogroup", "a.b.c", "svc.grp@", ".grp", "svc."} {
		_, err := ParseServiceGroup(in)
		var groupErr *InvalidServiceGroupError
		require.ErrorAs(t, err, &groupErr, "input %q", in)
		assert.Equal(t, in, groupErr.Value)
	}
}

func TestParseServiceGroupBadAppEnv(t *testing.T) {
	_, err := ParseServiceGroup("appenv#svc.grp")

	var aeErr *InvalidApplicationEnvironmentError
	require.ErrorAs(t, err, &aeErr)
	assert.Equal(t, "appenv", aeErr.Value)
}

func TestNewServiceGroup(t *testing.T) {
	sg, err := NewServiceGroup(ApplicationEnvironment{}, "postgres", "default", "")
	require.NoError(t, err)
	assert.Equal(t, "postgres.default", sg.String())

	_, err = NewServiceGroup(ApplicationEnvironment{}, "", "default", "")
	assert.Error(t, err)

	_, err = NewServiceGroup(ApplicationEnvironment{}, "bad.name", "default", "")
	assert.Error(t, err)
}

func TestParseApplicationEnvironment(t *testing.T) {
	ae, err := ParseApplicationEnvironment("theinternet.preprod")
	require.NoError(t, err)
	assert.Equal(t, "theinternet", ae.Application)
	assert.Equal(t, "preprod", ae.Environment)
	assert.Equal(t, "theinternet.preprod", ae.String())

	for _, in := range []string{"", "oneword", "a.b.c", ".env", "app."} {
		_, err := ParseApplicationEnvironment(in)
		assert.Error(t, err, "input %q", in)
	}
}
