// Package config provides configuration management for rigctl.
//
// This package implements a layered configuration system that allows users to
// customize the bootstrap sequence through YAML files. Configuration is loaded
// from multiple sources and merged in a specific order, with later sources
// overriding earlier ones.
//
// # Configuration Layers
//
//  1. Default Configuration (embedded in binary)
//     - Provides sensible defaults for the display server, toolkit binding
//       and test runner so rigctl works out-of-the-box in a standard CI image.
//
//  2. User Configuration (~/.config/rigctl/config.yaml)
//     - User-specific settings that apply to all projects.
//
//  3. Project Configuration (./.rigctl/config.yaml)
//     - Project-specific settings in the current directory, typically the
//       plugin repository under test. Allows teams to share the dependency
//       list via version control.
//
//  4. Environment Overrides
//     - A small set of variables (RIGCTL_REPOS_ROOT, RIGCTL_DISPLAY_NUMBER,
//       RIGCTL_INTERPRETER) override the file-based configuration so CI
//       runners can relocate the external-repositories root without editing
//       files.
//
// # Configuration Structure
//
// The configuration file uses YAML format with the following main sections:
//
//	reposRoot: /tmp/external-repos
//	dependencies:
//	  - name: toolkit-core
//	    url: https://example.com/pipeline/toolkit-core.git
//	    branch: master
//	  - name: toolkit-build
//	    url: https://example.com/pipeline/toolkit-build.git
//	    branch: master
//	    revision: 4f2a91c        # optional pin for reproducible runs
//	display:
//	  number: 99
//	  screenSpec: 1280x1024x24
//	toolkit:
//	  interpreter: python3
//	  bindingPackage: PySide2
//	  wheelIndexURL: https://wheels.example.com/simple
//	runner:
//	  script: ./tests/run_tests.sh
//	  coverageFlag: --with-coverage
//	coverage:
//	  enabled: true
//	  uploadCommand: ["codecov"]
package config
