// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package config

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/meridianframework/meridian/protocol"
)

func TestLoadStore(t *testing.T) {
	dir := t.TempDir()
	c := Default(dir)
	c.Storage.Type = MemoryStorage
	c.Governance.Threshold = 3
	require.NoError(t, Store(c))

	d, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, MemoryStorage, d.Storage.Type)
	require.Equal(t, 3, d.Governance.Threshold)
	require.Equal(t, protocol.DefaultCouncil, d.Governance.Council)
	require.Equal(t, dir, d.RootDir)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	c := Default(dir)
	c.Storage.Type = "etcd"
	require.NoError(t, Store(c))

	_, err := Load(dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "validate")
}

func TestLoadRejectsBadCoin(t *testing.T) {
	dir := t.TempDir()
	c := Default(dir)
	c.Governance.NativeCoin = "not a coin"
	require.NoError(t, Store(c))

	_, err := Load(dir)
	require.Error(t, err)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
}
