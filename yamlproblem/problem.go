// Tc
// Copyright (C) James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.
//
// Additional permission under GNU GPL version 3 section 7
//
// If you modify this program, or any covered work, by linking or combining it
// with embedded mcl code and modules (and that the embedded mcl code and
// modules which link with this program, contain a copy of their source code in
// the authoritative form) containing parts covered by the terms of any other
// license, the licensors of this program grant you additional permission to
// convey the resulting work. Furthermore, the licensors of this program grant
// the original author, James Shubin, additional permission to update this
// additional permission if he deems it necessary to achieve the goals of this
// additional permission.

// Package yamlproblem provides the facilities for loading unification problems
// from yaml files, and for running them.
package yamlproblem

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/purpleidea/tc/util"
	"github.com/purpleidea/tc/util/errwrap"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

// These are the possible outcomes of a problem.
const (
	ExpectOK       = "ok"
	ExpectOccurs   = "occurs"
	ExpectMismatch = "mismatch"
	ExpectUnbound  = "unbound"
)

// Extension is what problem files are named with when a directory is searched.
const Extension = ".yaml"

// Var declares a type variable. If Type is set, then the variable starts out as
// solved to it. It can only mention variables which were declared earlier.
type Var struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Pair is a single equation between two types.
type Pair struct {
	Lhs string `yaml:"lhs"`
	Rhs string `yaml:"rhs"`
}

// Problem is a single unification problem. Variables are declared in order,
// then each pair is unified in order, and then each expression is inferred.
type Problem struct {
	Name    string `yaml:"name"`
	Comment string `yaml:"comment"`

	Vars  []Var  `yaml:"vars"`
	Unify []Pair `yaml:"unify"`

	// Exprs are expressions to infer, in the context left by the pairs.
	Exprs []string `yaml:"exprs"`

	// Builtins binds the standard environment before inferring.
	Builtins bool `yaml:"builtins"`

	// Expect is the expected outcome. It defaults to ok.
	Expect string `yaml:"expect"`

	// Solved maps variable names to the type they should resolve to, if the
	// outcome is ok.
	Solved map[string]string `yaml:"solved"`
}

// ProblemFile is the data structure that describes a file of problems.
type ProblemFile struct {
	Comment  string     `yaml:"comment"`
	Problems []*Problem `yaml:"problems"`

	// Filename is where this was loaded from, if it was.
	Filename string `yaml:"-"`
}

// Parse parses a data stream into the problem file structure.
func (obj *ProblemFile) Parse(data []byte) error {
	if err := yaml.UnmarshalStrict(data, obj); err != nil {
		return errwrap.Wrapf(err, "problem file: invalid yaml")
	}
	if len(obj.Problems) == 0 {
		return fmt.Errorf("problem file: no problems")
	}
	names := []string{}
	for i, p := range obj.Problems {
		if p == nil || p.Name == "" {
			return fmt.Errorf("problem file: problem #%d is not named", i)
		}
		if util.StrInList(p.Name, names) {
			return fmt.Errorf("problem file: duplicate problem name: %s", p.Name)
		}
		names = append(names, p.Name)

		if p.Expect == "" {
			p.Expect = ExpectOK
		}
		switch p.Expect {
		case ExpectOK, ExpectOccurs, ExpectMismatch, ExpectUnbound:
		default:
			return fmt.Errorf("problem file: problem %s: invalid expect: %s", p.Name, p.Expect)
		}
		vars := []string{}
		for _, v := range p.Vars {
			if v.Name == "" || strings.HasPrefix(v.Name, "?") {
				return fmt.Errorf("problem file: problem %s: invalid var name: `%s`", p.Name, v.Name)
			}
			if util.StrInList(v.Name, vars) {
				return fmt.Errorf("problem file: problem %s: duplicate var: %s", p.Name, v.Name)
			}
			vars = append(vars, v.Name)
		}
	}
	return nil
}

// ParseFile reads and parses a single problem file from the filesystem.
func ParseFile(fs afero.Fs, filename string) (*ProblemFile, error) {
	data, err := afero.ReadFile(fs, filename)
	if err != nil {
		return nil, errwrap.Wrapf(err, "can't read %s", filename)
	}
	pf := &ProblemFile{
		Filename: filename,
	}
	if err := pf.Parse(data); err != nil {
		return nil, errwrap.Wrapf(err, "can't parse %s", filename)
	}
	return pf, nil
}

// FindFiles expands each path into the list of problem files it names. Files
// are returned as they are, and directories are searched recursively for files
// with the yaml extension, in lexical order.
func FindFiles(fs afero.Fs, paths []string) ([]string, error) {
	files := []string{}
	for _, p := range paths {
		fi, err := fs.Stat(p)
		if err != nil {
			return nil, errwrap.Wrapf(err, "can't stat %s", p)
		}
		if !fi.IsDir() {
			files = append(files, p)
			continue
		}
		found := []string{}
		walk := func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && filepath.Ext(path) == Extension {
				found = append(found, path)
			}
			return nil
		}
		if err := afero.Walk(fs, p, walk); err != nil {
			return nil, errwrap.Wrapf(err, "can't search %s", p)
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}
