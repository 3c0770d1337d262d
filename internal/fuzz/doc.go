// Package fuzztests houses Go fuzz harnesses for the document pipeline
// (scanner -> params -> rewrite -> record -> codegen). The goal is to catch
// panics, hangs and broken span invariants on arbitrary input.
//
// Назначение: прогонять байты через сканер, разбор плейсхолдеров и полную
// регенерацию документа.
//
// Не делает: запись файлов, запуск CLI.
//
// Зависимости: internal/source, internal/scanner, internal/params,
// internal/driver, internal/testkit.
package fuzztests
