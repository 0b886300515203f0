// SPDX-FileCopyrightText:  Copyright 2024 The gapbuffer Authors
// SPDX-License-Identifier: MIT
//
// Project:  gapbuffer
// File:     main.go
// Date:     07.Feb.2024
//
// =============================================================================

// Command gapbuf is a minimal terminal line editor that exercises a
// gapbuffer.Buffer against real keystrokes: every rune, backspace and
// delete you type turns into a SetCursor call followed by an InsertRune or
// DeleteBackwards/DeleteForwards call. Arrow, Home and End keys only move
// the caret position that the next edit hands to SetCursor.
package main

import (
	"fmt"
	"os"

	"atomicgo.dev/cursor"
	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"

	"github.com/nyxtext/gapbuffer"
)

func main() {
	buf := gapbuffer.New()
	cursorPos := 0

	fmt.Println("gapbuf -- type to edit, arrow keys to move, Esc or Ctrl+C to quit")
	draw(buf, cursorPos)

	err := keyboard.Listen(func(key keys.Key) (stop bool, err error) {
		switch key.Code {
		case keys.RuneKey, keys.Space:
			runes := key.Runes
			if key.Code == keys.Space {
				runes = []rune{' '}
			}
			for _, r := range runes {
				buf.SetCursor(cursorPos)
				buf.InsertRune(r)
				cursorPos++
			}
		case keys.Enter:
			buf.SetCursor(cursorPos)
			buf.InsertRune('\n')
			cursorPos++
		case keys.Backspace:
			if cursorPos > 0 {
				buf.SetCursor(cursorPos)
				buf.DeleteBackwards(1)
				cursorPos--
			}
		case keys.Delete:
			buf.SetCursor(cursorPos)
			buf.DeleteForwards(1)
		case keys.Left:
			if cursorPos > 0 {
				cursorPos--
			}
		case keys.Right:
			if cursorPos < buf.LenChars() {
				cursorPos++
			}
		case keys.Home:
			cursorPos = 0
		case keys.End:
			cursorPos = buf.LenChars()
		case keys.CtrlC, keys.Esc:
			return true, nil
		default:
			return false, nil
		}

		draw(buf, cursorPos)
		return false, nil
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "gapbuf:", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(buf.String())
}

// draw repaints the current buffer contents on a single terminal line,
// with the caret rendered as "|" at cursorPos. It is purely a display
// aid -- the editing state of record is always the Buffer itself.
func draw(buf *gapbuffer.Buffer, cursorPos int) {
	cursor.ClearLine()
	cursor.StartOfLine()

	full := []rune(buf.String())
	if cursorPos > len(full) {
		cursorPos = len(full)
	}
	left := string(full[:cursorPos])
	right := string(full[cursorPos:])
	fmt.Printf("%s|%s", left, right)
}
