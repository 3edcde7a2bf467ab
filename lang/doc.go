// Package lang provides lightweight language services that need no model server:
// a Unicode-script language detector, a stop-word keyword extractor and the
// fixed label tables used when assembling payloads.
//
// The detector implements ai.LanguageDetector, the extractor implements
// ai.KeywordExtractor and the localizer implements ai.Localizer.
package lang
