package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aatrey56/fpl-captain-mcp/internal/config"
	"github.com/aatrey56/fpl-captain-mcp/internal/logging"
)

// cachedEndpoints mirrors the raw cache layout written by internal/fetch.
var cachedEndpoints = []struct {
	Name string
	Glob string
}{
	{"bootstrap-static", filepath.Join("bootstrap", "bootstrap-static.json")},
	{"element-summary", filepath.Join("element-summary", "*.json")},
	{"entry-picks", filepath.Join("entry", "*", "gw", "*", "picks.json")},
}

type typeSet map[string]struct{}

type schemaMap map[string]typeSet

type Inventory struct {
	GeneratedAtUTC string     `json:"generated_at_utc"`
	RawRoot        string     `json:"raw_root"`
	Endpoints      []Endpoint `json:"endpoints"`
}

type Endpoint struct {
	Name         string  `json:"name"`
	FilesScanned int     `json:"files_scanned"`
	Fields       []Field `json:"fields"`
	// Mixed lists paths seen with more than one non-null type, such as form
	// arriving as both a string and a number.
	Mixed []string `json:"mixed"`
}

type Field struct {
	Path  string   `json:"path"`
	Types []string `json:"types"`
}

func main() {
	cfg := config.New()
	var (
		rawRoot  = flag.String("raw-root", cfg.RawRoot, "root directory of the file raw cache")
		outPath  = flag.String("out", "data/derived/schema_inventory.json", "output path")
		maxFiles = flag.Int("max-files", 0, "max files per endpoint (0 = no limit)")
	)
	flag.Parse()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logging.Component(logger, "schema-inventory")

	inv := buildInventory(*rawRoot, *maxFiles, log)
	inv.GeneratedAtUTC = time.Now().UTC().Format(time.RFC3339)

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		log.WithError(err).Fatal("create output dir")
	}
	payload, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		log.WithError(err).Fatal("encode inventory")
	}
	payload = append(payload, '\n')
	if err := os.WriteFile(*outPath, payload, 0o644); err != nil {
		log.WithError(err).Fatal("write inventory")
	}
	log.WithField("path", *outPath).Info("wrote schema inventory")
}

// buildInventory scans every cached endpoint under rawRoot. Unreadable or
// invalid files are logged and skipped.
func buildInventory(rawRoot string, maxFiles int, log *logrus.Entry) Inventory {
	inv := Inventory{
		RawRoot:   rawRoot,
		Endpoints: make([]Endpoint, 0, len(cachedEndpoints)),
	}
	for _, ep := range cachedEndpoints {
		files, err := filepath.Glob(filepath.Join(rawRoot, ep.Glob))
		if err != nil {
			log.WithError(err).WithField("endpoint", ep.Name).Warn("glob failed")
			continue
		}
		sort.Strings(files)
		if maxFiles > 0 && len(files) > maxFiles {
			files = files[:maxFiles]
		}
		if len(files) == 0 {
			log.WithField("endpoint", ep.Name).Debug("no cached files")
			continue
		}

		schema := make(schemaMap)
		for _, f := range files {
			raw, err := os.ReadFile(f)
			if err != nil {
				log.WithError(err).WithField("file", f).Warn("read failed")
				continue
			}
			var v any
			if err := json.Unmarshal(raw, &v); err != nil {
				log.WithError(err).WithField("file", f).Warn("invalid json")
				continue
			}
			walkSchema(v, "$", schema)
		}

		fields := schemaToFields(schema)
		inv.Endpoints = append(inv.Endpoints, Endpoint{
			Name:         ep.Name,
			FilesScanned: len(files),
			Fields:       fields,
			Mixed:        mixedPaths(fields),
		})
	}
	return inv
}

// walkSchema records the JSON type seen at every path. Arrays are sampled
// through all elements so per-row type drift is caught.
func walkSchema(v any, path string, schema schemaMap) {
	switch x := v.(type) {
	case map[string]any:
		addType(schema, path, "object")
		for k, child := range x {
			walkSchema(child, path+"."+k, schema)
		}
	case []any:
		addType(schema, path, "array")
		for _, child := range x {
			walkSchema(child, path+"[]", schema)
		}
	case string:
		addType(schema, path, "string")
	case bool:
		addType(schema, path, "bool")
	case float64:
		addType(schema, path, "number")
	case nil:
		addType(schema, path, "null")
	default:
		addType(schema, path, fmt.Sprintf("%T", v))
	}
}

func addType(schema schemaMap, path string, typ string) {
	set, ok := schema[path]
	if !ok {
		set = make(typeSet)
		schema[path] = set
	}
	set[typ] = struct{}{}
}

func schemaToFields(schema schemaMap) []Field {
	paths := make([]string, 0, len(schema))
	for p := range schema {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	fields := make([]Field, 0, len(paths))
	for _, p := range paths {
		types := make([]string, 0, len(schema[p]))
		for t := range schema[p] {
			types = append(types, t)
		}
		sort.Strings(types)
		fields = append(fields, Field{Path: p, Types: types})
	}
	return fields
}

func mixedPaths(fields []Field) []string {
	out := []string{}
	for _, f := range fields {
		n := 0
		for _, t := range f.Types {
			if t != "null" {
				n++
			}
		}
		if n > 1 {
			out = append(out, f.Path)
		}
	}
	return out
}
