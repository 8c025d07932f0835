// Package propconf persists typed object properties as human-editable text:
//
//  (tile-cache-size 512M)
//  (interpolation-type cubic)
//  (default-image
//      (width 1920)
//      (comment "Created with care"))
//
// - Property tables are declared once per type (NewType / Register) and shared by all objects
// - Values are a closed sum type (Value) encoded by a codec that knows MemSize, Path, Color and Enum
// - Serialize writes atomically through the writer package; Deserialize drives the scanner package
// - Records naming no property are kept in an ordered unknown-token table and written back unchanged
// - Failures are reported as Issues (code, property, file, line, column)
//
// Design policy:
// - Keep the codec, serializer and deserializer in the root package; text I/O lives in scanner/ and writer/.
// - Put application property tables under gimprc/ and declarative tables under schema/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  obj := propconf.New(myType)
//  if err := propconf.Deserialize(obj, "/etc/app/apprc"); err != nil && !propconf.IsNotFound(err) {
//      return err
//  }
//  err := propconf.Serialize(obj, path, "app settings", "end of app settings")
package propconf
