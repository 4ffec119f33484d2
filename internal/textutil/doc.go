// Package textutil holds small text helpers shared by the output writer.
package textutil
