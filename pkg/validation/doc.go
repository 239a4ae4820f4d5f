// Package validation implements field-level validation as an ordered rule
// chain: required, minLength, maxLength, then the custom validator. Only the
// first rule a field declares is evaluated. A required field is therefore
// checked for emptiness alone; its length bounds and validator apply only
// when the field is not required.
package validation
