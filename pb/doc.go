// Package tsoraclepb holds the messages of the time oracle. They are encoded
// with gogo/protobuf both on disk and on the wire. tsoracle.proto describes
// their wire format.
package tsoraclepb
