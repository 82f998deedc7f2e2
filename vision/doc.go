// Package vision implements the image preprocessing stage of the pipeline:
// it runs object detection and text recognition concurrently over one
// image, tolerates independent failure of either, and formats the combined
// outcome into a deterministic context block for the generation backend.
//
// The [Preprocessor] joins both stages with settle-all semantics: each
// branch runs under its own timeout, a failed or timed-out branch folds to
// an empty result, and neither branch can fail the request. Backing engines
// are supplied through the [Detector] and [Recognizer] interfaces; wrap the
// real engines in [NewLazyDetector] and [NewLazyRecognizer] to get
// process-wide singletons with guarded lazy initialization.
package vision
