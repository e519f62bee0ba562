package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/nthive/internal/testutil"
	"github.com/joshuapare/nthive/pkg/types"
)

func TestKeys(t *testing.T) {
	resetGlobals()
	hivePath := sampleHivePath(t)

	out, err := captureOutput(t, func() error { return runKeys(context.Background(), []string{hivePath}) })
	require.NoError(t, err)
	require.Equal(t, "Child\nOther\n", out)

	out, err = captureOutput(t, func() error { return runKeys(context.Background(), []string{hivePath, "Other"}) })
	require.NoError(t, err)
	require.Equal(t, "Leaf\n", out)
}

func TestKeys_Recursive(t *testing.T) {
	resetGlobals()
	hivePath := sampleHivePath(t)
	keysRecursive = true

	out, err := captureOutput(t, func() error { return runKeys(context.Background(), []string{hivePath}) })
	require.NoError(t, err)
	require.Equal(t, "Child\nOther\nOther\\Leaf\n", out)

	keysDepth = 1
	out, err = captureOutput(t, func() error { return runKeys(context.Background(), []string{hivePath}) })
	require.NoError(t, err)
	require.Equal(t, "Child\nOther\n", out)
}

func TestKeys_JSON(t *testing.T) {
	resetGlobals()
	hivePath := sampleHivePath(t)
	jsonOut = true

	out, err := captureOutput(t, func() error { return runKeys(context.Background(), []string{hivePath, "Child"}) })
	require.NoError(t, err)
	require.JSONEq(t, "[]", out)

	out, err = captureOutput(t, func() error { return runKeys(context.Background(), []string{hivePath}) })
	require.NoError(t, err)
	var entries []keyEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	require.Equal(t, "Other", entries[1].Path)
	require.Equal(t, uint32(1), entries[1].Subkeys)
}

func TestKeys_MissingPath(t *testing.T) {
	resetGlobals()
	hivePath := sampleHivePath(t)

	_, err := captureOutput(t, func() error { return runKeys(context.Background(), []string{hivePath, `Child\Nope`}) })
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestValues(t *testing.T) {
	resetGlobals()
	hivePath := sampleHivePath(t)

	out, err := captureOutput(t, func() error { return runValues([]string{hivePath, "Child"}) })
	require.NoError(t, err)
	assertContains(t, out, []string{"Greeting", "REG_SZ", "hi", "Count", "REG_DWORD", "0x00000007 (7)"})

	out, err = captureOutput(t, func() error { return runValues([]string{hivePath}) })
	require.NoError(t, err)
	require.Equal(t, "(no values)\n", out)
}

func TestValues_JSON(t *testing.T) {
	resetGlobals()
	hivePath := sampleHivePath(t)
	jsonOut = true

	out, err := captureOutput(t, func() error { return runValues([]string{hivePath, "Child"}) })
	require.NoError(t, err)
	var vals []valueInfo
	require.NoError(t, json.Unmarshal([]byte(out), &vals))
	require.Equal(t, []valueInfo{
		{Name: "Greeting", Type: "REG_SZ", Size: 6, Data: "hi"},
		{Name: "Count", Type: "REG_DWORD", Size: 4, Data: "0x00000007 (7)"},
	}, vals)
}

func TestGet(t *testing.T) {
	resetGlobals()
	hivePath := sampleHivePath(t)

	out, err := captureOutput(t, func() error { return runGet([]string{hivePath, "Child", "Greeting"}) })
	require.NoError(t, err)
	require.Equal(t, "hi\n", out)

	getRaw = true
	out, err = captureOutput(t, func() error { return runGet([]string{hivePath, "Child", "Count"}) })
	require.NoError(t, err)
	require.Equal(t, "07000000\n", out)

	_, err = captureOutput(t, func() error { return runGet([]string{hivePath, "Child", "Missing"}) })
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestGet_IgnoreCase(t *testing.T) {
	resetGlobals()
	hivePath := sampleHivePath(t)

	_, err := captureOutput(t, func() error { return runGet([]string{hivePath, "child", "greeting"}) })
	require.ErrorIs(t, err, types.ErrNotFound)

	cfg.CaseInsensitive = true
	out, err := captureOutput(t, func() error { return runGet([]string{hivePath, "child", "greeting"}) })
	require.NoError(t, err)
	require.Equal(t, "hi\n", out)
}

func TestTree(t *testing.T) {
	resetGlobals()
	hivePath := sampleHivePath(t)

	out, err := captureOutput(t, func() error { return runTree(context.Background(), []string{hivePath}) })
	require.NoError(t, err)
	require.Equal(t, "ROOT\n  Child\n  Other\n    Leaf\n", out)

	treeDepth = 1
	treeValues = true
	out, err = captureOutput(t, func() error { return runTree(context.Background(), []string{hivePath}) })
	require.NoError(t, err)
	assertContains(t, out, []string{"  Child\n", "= Greeting [REG_SZ] hi"})
	assertNotContains(t, out, []string{"Leaf"})
}

func TestTree_JSON(t *testing.T) {
	resetGlobals()
	hivePath := sampleHivePath(t)
	jsonOut = true

	out, err := captureOutput(t, func() error { return runTree(context.Background(), []string{hivePath, "Other"}) })
	require.NoError(t, err)
	assertJSON(t, out)
	var root treeNode
	require.NoError(t, json.Unmarshal([]byte(out), &root))
	require.Equal(t, "Other", root.Name)
	require.Len(t, root.Children, 1)
	require.Equal(t, "Leaf", root.Children[0].Name)
}

func TestInfo(t *testing.T) {
	resetGlobals()
	hivePath := sampleHivePath(t)

	out, err := captureOutput(t, func() error { return runInfo(context.Background(), []string{hivePath}) })
	require.NoError(t, err)
	assertContains(t, out, []string{"Version: 1.5", "Embedded name: testutil", "Checksum valid: true", "Keys: 4", "Values: 2 (10 bytes)"})

	jsonOut = true
	out, err = captureOutput(t, func() error { return runInfo(context.Background(), []string{hivePath}) })
	require.NoError(t, err)
	var info hiveInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	require.Equal(t, "ROOT", info.RootName)
	require.Equal(t, 2, info.MaxDepth)
	require.Equal(t, int64(len(testutil.SampleHive().Data)), info.Size)
}

func TestVerify_Clean(t *testing.T) {
	resetGlobals()
	hivePath := sampleHivePath(t)

	out, err := captureOutput(t, func() error { return runVerify(context.Background(), []string{hivePath}) })
	require.NoError(t, err)
	require.Contains(t, out, "no problems found")
}

func TestVerify_ReportsProblems(t *testing.T) {
	resetGlobals()
	b := testutil.NewBuilder()
	leaf := b.Alloc(testutil.Key("Leaf").Bytes())
	root := testutil.Key("root")
	root.SubkeyCount = 2
	root.SubkeysList = b.Alloc(testutil.LH(testutil.Entry{Offset: leaf, Hint: 1}))
	b.SetRoot(b.Alloc(root.Bytes()))
	hivePath := testutil.WriteHive(t, b.Bytes())
	jsonOut = true

	out, err := captureOutput(t, func() error { return runVerify(context.Background(), []string{hivePath}) })
	require.ErrorContains(t, err, "2 problem(s) found")
	var res verifyResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.False(t, res.Valid)
	kinds := make([]string, 0, len(res.Problems))
	for _, p := range res.Problems {
		kinds = append(kinds, p.Type)
	}
	require.ElementsMatch(t, []string{"SubkeyCount", "HashLeaf"}, kinds)
}

func TestOpen_MissingFile(t *testing.T) {
	resetGlobals()
	_, err := captureOutput(t, func() error { return runKeys(context.Background(), []string{"/nonexistent/hive"}) })
	require.ErrorContains(t, err, "failed to open hive")
}

func TestOpen_StreamedMatchesMapped(t *testing.T) {
	resetGlobals()
	hivePath := sampleHivePath(t)

	mapped, err := captureOutput(t, func() error { return runTree(context.Background(), []string{hivePath}) })
	require.NoError(t, err)
	cfg.NoMmap = true
	streamed, err := captureOutput(t, func() error { return runTree(context.Background(), []string{hivePath}) })
	require.NoError(t, err)
	require.Equal(t, mapped, streamed)
}

func TestExport(t *testing.T) {
	resetGlobals()
	hivePath := sampleHivePath(t)
	exportPrefix = `HKEY_LOCAL_MACHINE\SAMPLE`

	out, err := captureOutput(t, func() error { return runExport(context.Background(), []string{hivePath, "Child"}) })
	require.NoError(t, err)
	require.Equal(t, "Windows Registry Editor Version 5.00\n\n"+
		"[HKEY_LOCAL_MACHINE\\SAMPLE\\Child]\n\"Greeting\"=\"hi\"\n\"Count\"=dword:00000007\n\n", out)
}

func TestExport_ToFile(t *testing.T) {
	resetGlobals()
	hivePath := sampleHivePath(t)
	exportOutput = filepath.Join(t.TempDir(), "out.reg")

	out, err := captureOutput(t, func() error { return runExport(context.Background(), []string{hivePath}) })
	require.NoError(t, err)
	require.Empty(t, out)

	data, err := os.ReadFile(exportOutput)
	require.NoError(t, err)
	assertContains(t, string(data), []string{"[HKEY_LOCAL_MACHINE]\n", "[HKEY_LOCAL_MACHINE\\Other\\Leaf]\n"})
}
