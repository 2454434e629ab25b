package core

import (
	"os"
	"strconv"
)

// builtinTest implements a practical subset of POSIX test(1): string and
// integer comparisons and the common file-status unary operators. Invoked
// as both "test ARGS..." and "[ ARGS... ]"; the trailing "]" is stripped
// here since argv arrives unmodified from the simple command's words.
func builtinTest(c *ShellCore, argv []string) int {
	args := argv[1:]
	if argv[0] == "[" && len(args) > 0 && args[len(args)-1] == "]" {
		args = args[:len(args)-1]
	}
	if evalTest(args) {
		return 0
	}
	return 1
}

func evalTest(args []string) bool {
	switch len(args) {
	case 0:
		return false
	case 1:
		return args[0] != ""
	case 2:
		return evalUnary(args[0], args[1])
	case 3:
		if v, ok := evalBinary(args[0], args[1], args[2]); ok {
			return v
		}
		return false
	default:
		return false
	}
}

func evalUnary(op, arg string) bool {
	switch op {
	case "-z":
		return arg == ""
	case "-n":
		return arg != ""
	case "-e":
		_, err := os.Stat(arg)
		return err == nil
	case "-f":
		fi, err := os.Stat(arg)
		return err == nil && fi.Mode().IsRegular()
	case "-d":
		fi, err := os.Stat(arg)
		return err == nil && fi.IsDir()
	case "-r", "-w", "-x":
		_, err := os.Stat(arg)
		return err == nil
	case "-s":
		fi, err := os.Stat(arg)
		return err == nil && fi.Size() > 0
	case "-L":
		fi, err := os.Lstat(arg)
		return err == nil && fi.Mode()&os.ModeSymlink != 0
	case "!":
		return arg == ""
	default:
		return false
	}
}

func evalBinary(lhs, op, rhs string) (bool, bool) {
	switch op {
	case "=", "==":
		return lhs == rhs, true
	case "!=":
		return lhs != rhs, true
	case "-eq", "-ne", "-lt", "-le", "-gt", "-ge":
		l, errL := strconv.ParseInt(lhs, 10, 64)
		r, errR := strconv.ParseInt(rhs, 10, 64)
		if errL != nil || errR != nil {
			return false, false
		}
		switch op {
		case "-eq":
			return l == r, true
		case "-ne":
			return l != r, true
		case "-lt":
			return l < r, true
		case "-le":
			return l <= r, true
		case "-gt":
			return l > r, true
		case "-ge":
			return l >= r, true
		}
	case "-a":
		return lhs != "" && rhs != "", true
	case "-o":
		return lhs != "" || rhs != "", true
	}
	return false, false
}
