// Package orchestration runs batches of expressions on one or more engines
// concurrently and cross-checks the engines' results. It decouples the
// evaluation logic from presentation via the ProgressReporter and
// ResultPresenter interfaces.
package orchestration
