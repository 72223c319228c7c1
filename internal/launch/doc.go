// SPDX-License-Identifier: MPL-2.0

// Package launch compiles a provisioned version into a process invocation and
// hands it to a Runner.
//
// Compile walks the descriptor's JVM and game argument templates in order and
// substitutes ${...} placeholders. Resolving ${natives_directory} unpacks the
// native jars into the instance's natives directory first. Placeholders that
// are not recognized are left as written.
package launch
