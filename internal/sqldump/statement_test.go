package sqldump

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDump = "-- MySQL dump\n" +
	"DROP TABLE IF EXISTS `modx_site_content`;\n" +
	"INSERT INTO `modx_site_content_extra` VALUES (9,'nope');\n" +
	"INSERT INTO `modx_site_content` VALUES (1,'Home','<p>a);\nb</p>'),(2,'About','x');\n" +
	"INSERT INTO `modx_redirects` (`id`,`pattern`) VALUES (1,'old');\n" +
	"INSERT INTO `modx_site_content` VALUES (3,'Second statement','y');\n"

func TestFindInsert_FirstMatchWithQuotedTerminator(t *testing.T) {
	values, ok := FindInsert(sampleDump, "modx_site_content")
	require.True(t, ok)
	res := SplitTuples(values)
	require.Len(t, res.Tuples, 2)
	assert.Equal(t, "<p>a);\nb</p>", res.Tuples[0][2].Str)
	assert.Equal(t, "About", res.Tuples[1][1].Str)
}

func TestFindInsert_ColumnList(t *testing.T) {
	values, ok := FindInsert(sampleDump, "modx_redirects")
	require.True(t, ok)
	assert.Equal(t, "(1,'old')", values)
}

func TestFindInsert_Missing(t *testing.T) {
	_, ok := FindInsert(sampleDump, "modx_clientconfig_setting")
	assert.False(t, ok)
}

func TestCountInserts(t *testing.T) {
	assert.Equal(t, 2, CountInserts(sampleDump, "modx_site_content"))
	assert.Equal(t, 1, CountInserts(sampleDump, "modx_site_content_extra"))
	assert.Equal(t, 0, CountInserts(sampleDump, "modx_users"))
}
