package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/section-planner-api/internal/models"
)

const sheet = `course_code,title,section,course_type,credit,day1,day2,time1,time2,faculty_name
CSE1111,Structured Programming,A,Theory,3,Sat,Tue,08:30 AM - 09:50 AM,08:30 AM - 09:50 AM,Dr. Rahman
CSE1111,Structured Programming,B,Theory,3,Sun,Wed,08:30 AM - 09:50 AM,08:30 AM - 09:50 AM,Dr. Rahman
MAT2105,Linear Algebra,A,Theory,3,Sat,Tue,08:30 AM - 09:50 AM,08:30 AM - 09:50 AM,
MAT2105,Linear Algebra,A,Theory,3,Sun,Wed,11:11 AM - 12:30 PM,11:11 AM - 12:30 PM,
PHY1101,Physics,,Theory,3,Mon,,08:30 AM - 09:50 AM,,
`

func writeSheet(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "offerings.csv")
	require.NoError(t, os.WriteFile(path, []byte(sheet), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateCommand(t *testing.T) {
	out, err := execute(t, "generate", "--sections", writeSheet(t), "--course", "cse1111", "--course", "MAT2105", "-n", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Option 1")
	assert.NotContains(t, out, "Option 2")
	assert.Contains(t, out, "CSE1111  B")
	assert.Contains(t, out, "Dr. Rahman")
}

func TestGenerateCommandUnknownCourse(t *testing.T) {
	_, err := execute(t, "generate", "--sections", writeSheet(t), "--course", "EEE2101")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EEE2101")
}

func TestGenerateCommandRejectsPairing(t *testing.T) {
	_, err := execute(t, "generate", "--sections", writeSheet(t), "--course", "CSE1111", "--pairing", "diagonal")
	require.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	path := writeSheet(t)
	out, err := execute(t, "validate", "--sections", path)
	require.NoError(t, err)
	assert.Contains(t, out, "3 sections importable, 2 warnings")
	assert.Contains(t, out, "duplicate of row 4")

	_, err = execute(t, "validate", "--sections", path, "--strict")
	require.Error(t, err)
}

func TestRunGenerateNoSchedule(t *testing.T) {
	clash := []models.Section{
		{CourseCode: "CSE1111", SectionLabel: "A", Day1: "Saturday", Time1: "08:30 AM - 09:50 AM"},
		{CourseCode: "MAT2105", SectionLabel: "A", Day1: "Saturday", Time1: "08:30 AM - 09:50 AM"},
	}
	out := &bytes.Buffer{}
	err := runGenerate(out, zap.NewNop(), clash, &generateOptions{courses: []string{"CSE1111", "MAT2105"}, options: 2, pairing: "cross"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.String(), "No conflict-free schedule"))
}

func TestGenerateCommandCSV(t *testing.T) {
	out, err := execute(t, "generate", "--sections", writeSheet(t), "--course", "CSE1111", "--course", "MAT2105", "--format", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "option,score,course_code,section,day1,time1,day2,time2,faculty", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1,"))
	assert.Contains(t, lines[1], "CSE1111,B,Sunday")

	_, err = execute(t, "generate", "--sections", writeSheet(t), "--course", "CSE1111", "--format", "xml")
	require.Error(t, err)
}
