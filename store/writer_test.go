package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vmihailenco/msgpack/v5"

	qsynth "github.com/mia-platform/quantum-synthetic-data-generator-experimemt"
)

func testSamples() []qsynth.Sample {
	return []qsynth.Sample{
		{
			ID: "a", Title: "Orbit of Ash", ISBN: "9780306406157", PublishedYear: 2011,
			Genre: "Science Fiction", Description: "d", State: "PUBLIC", CreatorID: "user-001", UpdaterID: "user-001",
		},
		{
			ID: "b", Title: "Black Orchard", ISBN: "9780306406157", PublishedYear: 1999,
			Genre: "Horror", Description: "e", State: "DRAFT", CreatorID: "user-002", UpdaterID: "user-003",
		},
	}
}

func writeAll(w Writer, records []qsynth.Sample) {
	for _, r := range records {
		So(w.Write(r), ShouldBeNil)
	}
	So(w.Close(), ShouldBeNil)
}

func TestParseFormat(t *testing.T) {
	Convey("Given format names", t, func() {
		for _, name := range []string{"json", "jsonl", "msgpack", "sqlite"} {
			f, err := ParseFormat(name)
			So(err, ShouldBeNil)
			So(string(f), ShouldEqual, name)
		}

		_, err := ParseFormat("csv")
		So(err, ShouldNotBeNil)

		_, err = NewWriter(FormatSQLite, &bytes.Buffer{})
		So(err, ShouldNotBeNil)
	})
}

func TestStreamWriters(t *testing.T) {
	Convey("Given a set of records", t, func() {
		records := testSamples()
		buf := &bytes.Buffer{}

		Convey("The JSON writer should emit one array with the wire keys", func() {
			w, err := NewWriter(FormatJSON, buf)
			So(err, ShouldBeNil)
			writeAll(w, records)

			var decoded []map[string]any
			So(json.Unmarshal(buf.Bytes(), &decoded), ShouldBeNil)
			So(len(decoded), ShouldEqual, 2)
			So(decoded[0]["publishedYear"], ShouldEqual, 2011.0)
			So(decoded[1]["updaterId"], ShouldEqual, "user-003")

			var typed []qsynth.Sample
			So(json.Unmarshal(buf.Bytes(), &typed), ShouldBeNil)
			So(typed, ShouldResemble, records)
		})

		Convey("An empty JSON array should still be valid", func() {
			w, _ := NewWriter(FormatJSON, buf)
			So(w.Close(), ShouldBeNil)
			So(buf.String(), ShouldEqual, "[]\n")
		})

		Convey("The JSON lines writer should emit one object per line", func() {
			w, err := NewWriter(FormatJSONL, buf)
			So(err, ShouldBeNil)
			writeAll(w, records)

			scanner := bufio.NewScanner(buf)
			var lines []qsynth.Sample
			for scanner.Scan() {
				var s qsynth.Sample
				So(json.Unmarshal(scanner.Bytes(), &s), ShouldBeNil)
				lines = append(lines, s)
			}
			So(lines, ShouldResemble, records)
		})

		Convey("The msgpack writer should produce a decodable stream", func() {
			w, err := NewWriter(FormatMsgpack, buf)
			So(err, ShouldBeNil)
			writeAll(w, records)

			dec := msgpack.NewDecoder(buf)
			for _, want := range records {
				var got qsynth.Sample
				So(dec.Decode(&got), ShouldBeNil)
				So(got, ShouldResemble, want)
			}
		})
	})
}
