package journal

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	. "github.com/fulldump/biff"

	"github.com/fulldump/ordermap/store"
)

type decoded struct {
	Name      string `json:"name"`
	Uuid      string `json:"uuid"`
	Timestamp int64  `json:"timestamp"`
	Payload   struct {
		Value    string              `json:"value"`
		Removed  []map[string]string `json:"removed"`
		Metadata string              `json:"metadata"`
	} `json:"payload"`
}

func TestEncode(t *testing.T) {
	s := store.NewOrdered[int, string, string](true)
	s.Add(10, "ten", "first")
	s.Add(20, "twenty", "second")
	s.Remove(10)

	out := &bytes.Buffer{}
	err := Encode(out, s.Events())
	AssertNil(err)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	AssertEqual(len(lines), 3)

	commands := []decoded{}
	for _, line := range lines {
		cmd := decoded{}
		AssertNil(json.Unmarshal([]byte(line), &cmd))
		commands = append(commands, cmd)
	}

	AssertEqual(commands[0].Name, "added")
	AssertEqual(commands[0].Payload.Value, "ten")
	AssertEqual(commands[0].Payload.Metadata, "first")
	AssertNotEqual(commands[0].Uuid, "")
	AssertTrue(commands[0].Timestamp > 0)

	AssertEqual(commands[1].Name, "added")
	AssertEqual(commands[1].Payload.Value, "twenty")

	AssertEqual(commands[2].Name, "removed")
	AssertEqual(commands[2].Payload.Value, "ten")
	AssertEqual(commands[2].Payload.Metadata, "")
}

func TestEncodeBulk(t *testing.T) {
	s := store.NewOrdered[int, string, string](true)
	s.BulkAdd([]store.Entry[int, string]{
		{Key: 1, Value: "one"},
		{Key: 2, Value: "two"},
	}, "batch")

	out := &bytes.Buffer{}
	AssertNil(Encode(out, s.Events()))

	cmd := struct {
		Name    string `json:"name"`
		Payload struct {
			Added    []map[string]any `json:"added"`
			Metadata string           `json:"metadata"`
		} `json:"payload"`
	}{}
	AssertNil(json.Unmarshal(out.Bytes(), &cmd))
	AssertEqual(cmd.Name, "bulk_added_removed")
	AssertEqual(len(cmd.Payload.Added), 2)
	AssertEqual(cmd.Payload.Added[0]["key"], float64(1))
	AssertEqual(cmd.Payload.Added[0]["value"], "one")
	AssertEqual(cmd.Payload.Metadata, "batch")
}

func TestEncodeNothing(t *testing.T) {
	out := &bytes.Buffer{}
	AssertNil(Encode[int, string, string](out, nil))
	AssertEqual(out.Len(), 0)
}
