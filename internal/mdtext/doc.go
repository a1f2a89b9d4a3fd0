// Package mdtext holds pure derivations over markdown source text: the
// heading outline, document statistics, the cosmetic formatter,
// search-and-replace and plain-text stripping.
//
// Nothing here touches session state; every function takes the text and
// returns a new value.
package mdtext
