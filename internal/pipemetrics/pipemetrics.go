// Copyright 2025 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package pipemetrics exposes Prometheus counters and histograms for
// each stage of the compile pipeline (scan, preparse, precompile,
// parse, analyze, lower). Registration is lazy and idempotent so
// packages can call the record helpers at import time without
// requiring an explicit init step from cmd/lilyc.
package pipemetrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	once sync.Once

	tokensScanned  prometheus.Counter
	lexicalErrors  prometheus.Counter
	macrosExpanded prometheus.Counter
	importsResolved prometheus.Counter
	importCycles   prometheus.Counter
	nodesParsed    prometheus.Counter
	syntaxErrors   prometheus.Counter
	typeErrors     prometheus.Counter
	monomorphizations prometheus.Counter
	mirInstructions prometheus.Counter
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter

	scanDuration       prometheus.Histogram
	precompileDuration prometheus.Histogram
	parseDuration      prometheus.Histogram
	analyzeDuration    prometheus.Histogram
	lowerDuration      prometheus.Histogram
}

var m metrics

func (mm *metrics) init() {
	mm.once.Do(func() {
		mm.tokensScanned = prometheus.NewCounter(prometheus.CounterOpts{Name: "lilyc_tokens_scanned_total", Help: "Tokens produced by the scanner"})
		mm.lexicalErrors = prometheus.NewCounter(prometheus.CounterOpts{Name: "lilyc_lexical_errors_total", Help: "Lexical errors recorded by the scanner"})
		mm.macrosExpanded = prometheus.NewCounter(prometheus.CounterOpts{Name: "lilyc_macros_expanded_total", Help: "Macro invocations expanded by the preparser"})
		mm.importsResolved = prometheus.NewCounter(prometheus.CounterOpts{Name: "lilyc_imports_resolved_total", Help: "Import directives resolved by the precompiler"})
		mm.importCycles = prometheus.NewCounter(prometheus.CounterOpts{Name: "lilyc_import_cycles_total", Help: "Import cycles detected by the precompiler"})
		mm.nodesParsed = prometheus.NewCounter(prometheus.CounterOpts{Name: "lilyc_ast_nodes_total", Help: "AST nodes produced by the parser"})
		mm.syntaxErrors = prometheus.NewCounter(prometheus.CounterOpts{Name: "lilyc_syntax_errors_total", Help: "Syntax errors recorded by the parser"})
		mm.typeErrors = prometheus.NewCounter(prometheus.CounterOpts{Name: "lilyc_type_errors_total", Help: "Type errors recorded by the analyzer"})
		mm.monomorphizations = prometheus.NewCounter(prometheus.CounterOpts{Name: "lilyc_monomorphizations_total", Help: "Generic signatures monomorphized"})
		mm.mirInstructions = prometheus.NewCounter(prometheus.CounterOpts{Name: "lilyc_mir_instructions_total", Help: "MIR instructions emitted"})
		mm.cacheHits = prometheus.NewCounter(prometheus.CounterOpts{Name: "lilyc_cache_hits_total", Help: "Incremental build cache hits"})
		mm.cacheMisses = prometheus.NewCounter(prometheus.CounterOpts{Name: "lilyc_cache_misses_total", Help: "Incremental build cache misses"})

		buckets := []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
		mm.scanDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "lilyc_scan_seconds", Help: "Scan stage duration", Buckets: buckets})
		mm.precompileDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "lilyc_precompile_seconds", Help: "Precompile stage duration", Buckets: buckets})
		mm.parseDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "lilyc_parse_seconds", Help: "Parse stage duration", Buckets: buckets})
		mm.analyzeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "lilyc_analyze_seconds", Help: "Analyze stage duration", Buckets: buckets})
		mm.lowerDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "lilyc_lower_seconds", Help: "MIR lowering stage duration", Buckets: buckets})

		prometheus.MustRegister(
			mm.tokensScanned, mm.lexicalErrors, mm.macrosExpanded,
			mm.importsResolved, mm.importCycles,
			mm.nodesParsed, mm.syntaxErrors, mm.typeErrors,
			mm.monomorphizations, mm.mirInstructions,
			mm.cacheHits, mm.cacheMisses,
			mm.scanDuration, mm.precompileDuration, mm.parseDuration, mm.analyzeDuration, mm.lowerDuration,
		)
	})
}

// AddTokensScanned increments the scanned-token counter by n.
func AddTokensScanned(n int) { m.init(); m.tokensScanned.Add(float64(n)) }

// AddLexicalErrors increments the lexical-error counter by n.
func AddLexicalErrors(n int) { m.init(); m.lexicalErrors.Add(float64(n)) }

// AddMacrosExpanded increments the macro-expansion counter by n.
func AddMacrosExpanded(n int) { m.init(); m.macrosExpanded.Add(float64(n)) }

// AddImportsResolved increments the resolved-import counter by n.
func AddImportsResolved(n int) { m.init(); m.importsResolved.Add(float64(n)) }

// IncImportCycles increments the import-cycle counter.
func IncImportCycles() { m.init(); m.importCycles.Inc() }

// AddNodesParsed increments the parsed-AST-node counter by n.
func AddNodesParsed(n int) { m.init(); m.nodesParsed.Add(float64(n)) }

// AddSyntaxErrors increments the syntax-error counter by n.
func AddSyntaxErrors(n int) { m.init(); m.syntaxErrors.Add(float64(n)) }

// AddTypeErrors increments the type-error counter by n.
func AddTypeErrors(n int) { m.init(); m.typeErrors.Add(float64(n)) }

// IncMonomorphizations increments the monomorphization counter.
func IncMonomorphizations() { m.init(); m.monomorphizations.Inc() }

// AddMIRInstructions increments the emitted-MIR-instruction counter by n.
func AddMIRInstructions(n int) { m.init(); m.mirInstructions.Add(float64(n)) }

// IncCacheHit increments the incremental-cache hit counter.
func IncCacheHit() { m.init(); m.cacheHits.Inc() }

// IncCacheMiss increments the incremental-cache miss counter.
func IncCacheMiss() { m.init(); m.cacheMisses.Inc() }

// ObserveScan records the duration of a scan-stage invocation.
func ObserveScan(d time.Duration) { m.init(); m.scanDuration.Observe(d.Seconds()) }

// ObservePrecompile records the duration of a precompile-stage invocation.
func ObservePrecompile(d time.Duration) { m.init(); m.precompileDuration.Observe(d.Seconds()) }

// ObserveParse records the duration of a parse-stage invocation.
func ObserveParse(d time.Duration) { m.init(); m.parseDuration.Observe(d.Seconds()) }

// ObserveAnalyze records the duration of an analyze-stage invocation.
func ObserveAnalyze(d time.Duration) { m.init(); m.analyzeDuration.Observe(d.Seconds()) }

// ObserveLower records the duration of an MIR-lowering invocation.
func ObserveLower(d time.Duration) { m.init(); m.lowerDuration.Observe(d.Seconds()) }
