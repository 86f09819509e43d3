package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticLookups(t *testing.T) {
	ctx := context.Background()
	d := NewStatic().AddClient(Client{ID: "c1", Name: "Acme", Email: "ap@acme.test"})
	require.NoError(t, d.AddProject(Project{ID: "p1", ClientID: "c1", Name: "Website"}))

	c, err := d.Client(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Acme", c.Name)

	p, err := d.Project(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "c1", p.ClientID)

	missing, err := d.Client(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStaticProjectNeedsClient(t *testing.T) {
	err := NewStatic().AddProject(Project{ID: "p1", ClientID: "ghost"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestEmpty(t *testing.T) {
	var d Directory = Empty{}
	c, err := d.Client(context.Background(), "c1")
	assert.NoError(t, err)
	assert.Nil(t, c)
}
